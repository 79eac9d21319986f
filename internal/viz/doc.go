// Package viz provides a terminal browser for recorded SIR runs.
//
// The browser is a Bubble Tea program showing the recorded table, a
// sparkline of one compartment with the cursor marked, and the run summary.
//
// # Key Bindings
//
//	j/k, up/down   - Move one entry
//	f/b, pgdn/pgup - Move one page
//	g/G            - First / last entry
//	p              - Jump to peak infected
//	c, tab         - Cycle sparkline compartment
//	t              - Cycle color themes
//	q              - Quit
package viz
