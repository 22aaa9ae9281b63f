// Package scenario manages mission scenario files for the Mars Rover server.
//
// A scenario is a saved mission: the request payload plus a display name, a
// description and, optionally, the report the rover is expected to end on.
// Files live in one directory and may be JSON or YAML:
//
//	name: Classic rover one
//	description: First rover of the original challenge
//	topRightCorner: {x: 5, y: 5}
//	roverPosition: {x: 1, y: 2}
//	roverDirection: N
//	movements: LMLMLMLMM
//	expected: 1 3 N
//
// The file name without extension is the scenario ID used by sessions and
// the API. Scenarios are validated with the same rules as API requests and
// cached after the first load. Watch drops cache entries when files change.
//
// Usage:
//
//	manager, err := scenario.NewManager("scenarios")
//	if err != nil {
//		return err
//	}
//	go manager.Watch(ctx)
//
//	config, err := manager.LoadScenario("classic")
package scenario
