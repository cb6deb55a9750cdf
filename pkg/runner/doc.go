/*
Package runner implements the host loop for the pagestate engine.

The core never schedules anything itself: transitions only signal a change.
The Runner is the scheduler. It alternates reactivity passes with renders,
runs async entry hooks on a bounded worker pool, and waits for the next change
signal between passes.

# Key Components

  - Runner: the loop. One Run per Runner.
  - Output: receives each rendered Frame (TextOutput, JSONOutput, OutputFunc).
  - SignalManager: cancels the run on SIGINT/SIGTERM.

# Usage

	r := runner.New(engine,
		runner.WithTree(page...),
		runner.WithOutput(runner.NewTextOutput(os.Stdout, nil)),
		runner.WithExitOnIdle(),
	)

	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
