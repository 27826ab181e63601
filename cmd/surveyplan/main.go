package main

import (
	"context"
	"os"
	"runtime/debug"

	"github.com/dpup/prefab/errors"
	"github.com/dpup/prefab/logging"
	"github.com/spf13/cobra"
)

func main() {
	ctx := context.Background()

	defer func() {
		if r := recover(); r != nil {
			err, _ := errors.ParseStack(debug.Stack())
			skipFrames := 3
			numFrames := 5
			logging.Errorw(ctx, "surveyplan: recovered from panic",
				"error", r, "error.stack_trace", err.MinimalStack(skipFrames, numFrames))
			os.Exit(2)
		}
	}()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "surveyplan",
		Short:        "Plan marine survey lines over a polygon",
		SilenceUsage: true,
	}
	root.AddCommand(
		newPlanCommand(),
		newInverseCommand(),
		newDirectCommand(),
		newHeadingCommand(),
		newDepthCommand(),
	)
	return root
}
