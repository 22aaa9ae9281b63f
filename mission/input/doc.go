// Package input turns raw mission requests into validated engine configs.
//
// Two formats are accepted. The JSON payload carries one rover:
//
//	{
//	  "topRightCorner": {"x": 5, "y": 5},
//	  "roverPosition": {"x": 1, "y": 2},
//	  "roverDirection": "N",
//	  "movements": "LMLMLMLMM"
//	}
//
// The classic text format carries a plateau line followed by a position line
// and a commands line per rover:
//
//	5 5
//	1 2 N
//	LMLMLMLMM
//	3 3 E
//	MMRMMRMRRM
//
// Parsing only checks structure. Validate is the single place where bad
// plateaus, starting positions and headings are rejected, each with its own
// sentinel error. Command strings are never rejected.
package input
