package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/petal-labs/yvision/core"
)

// requestFlags are the per-request options shared by recognize and start.
type requestFlags struct {
	mime      string
	languages []string
	model     string
	requestID string
}

func (f *requestFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.mime, "mime", "", "MIME type of the file (detected when empty)")
	cmd.Flags().StringSliceVar(&f.languages, "lang", nil, "language hints, e.g. ru,en (overrides languages)")
	cmd.Flags().StringVar(&f.model, "model", "", "recognition model, e.g. page, table (overrides model)")
	cmd.Flags().StringVar(&f.requestID, "request-id", "", "x-request-id to send")
}

// options merges config defaults with the flags.
func (a *App) options(f *requestFlags) (core.Options, error) {
	opts, err := a.cfg.Options()
	if err != nil {
		return core.Options{}, err
	}

	if len(f.languages) > 0 {
		codes := make([]core.LanguageCode, 0, len(f.languages))
		for _, lang := range f.languages {
			code, err := core.ParseLanguageCode(lang)
			if err != nil {
				return core.Options{}, err
			}
			codes = append(codes, code)
		}
		opts = opts.WithLanguageCodes(codes...)
	}
	if f.model != "" {
		model, err := core.ParseModel(f.model)
		if err != nil {
			return core.Options{}, err
		}
		opts = opts.WithModel(model)
	}
	if f.mime != "" {
		opts = opts.WithMimeType(f.mime)
	}
	if f.requestID != "" {
		opts = opts.WithRequestID(f.requestID)
	}

	return opts, opts.Validate()
}

// waitTimeout returns the flag value when set, else the configured timeout.
func (a *App) waitTimeout(cmd *cobra.Command, flag time.Duration) (time.Duration, error) {
	if cmd.Flags().Changed("timeout") {
		return flag, nil
	}
	d, err := a.cfg.WaitTimeout()
	if err != nil {
		return 0, configError(err)
	}
	return d, nil
}

func (a *App) newRecognizeCommand() *cobra.Command {
	var (
		flags   requestFlags
		async   bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "recognize <file>",
		Short: "Recognize text in a file",
		Long: `Recognize text in an image or PDF document and print it.

By default the synchronous endpoint is used. With --async the file is
submitted as an operation and the command waits for its result.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.options(&flags)
			if err != nil {
				return a.handleError(err)
			}
			wait, err := a.waitTimeout(cmd, timeout)
			if err != nil {
				return a.handleError(err)
			}

			client, cleanup, err := a.client()
			if err != nil {
				return a.handleError(err)
			}
			defer cleanup()

			ctx := cmd.Context()
			if !async {
				resp, err := client.RecognizeTextFromFile(ctx, args[0], opts)
				if err != nil {
					return a.handleError(err)
				}
				return a.printResult("", resp)
			}

			handle, err := client.StartTextRecognitionFromFile(ctx, args[0], opts)
			if err != nil {
				return a.handleError(err)
			}
			resp, err := client.Wait(ctx, handle.OperationID, wait, nil)
			if err != nil {
				return a.handleError(err)
			}
			return a.printResult(handle.OperationID, resp)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&async, "async", false, "use the asynchronous endpoint and wait for the result")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "maximum time to wait with --async (default from config, 60s)")

	return cmd
}

func (a *App) newStartCommand() *cobra.Command {
	var flags requestFlags

	cmd := &cobra.Command{
		Use:   "start <file>",
		Short: "Start asynchronous recognition of a file",
		Long:  `Submit a file for asynchronous recognition and print the operation id.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.options(&flags)
			if err != nil {
				return a.handleError(err)
			}

			client, cleanup, err := a.client()
			if err != nil {
				return a.handleError(err)
			}
			defer cleanup()

			handle, err := client.StartTextRecognitionFromFile(cmd.Context(), args[0], opts)
			if err != nil {
				return a.handleError(err)
			}

			if a.jsonOutput {
				return a.writeJSON(handle)
			}
			fmt.Fprintln(a.stdout, handle.OperationID)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func (a *App) newOperationCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "operation <id>",
		Short: "Show the status of an operation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cleanup, err := a.client()
			if err != nil {
				return a.handleError(err)
			}
			defer cleanup()

			status, err := client.GetOperation(cmd.Context(), args[0])
			if err != nil {
				return a.handleError(err)
			}

			if a.jsonOutput {
				return a.writeJSON(status)
			}

			state := "running"
			if msg, failed := status.Failure(); failed {
				state = "failed: " + msg
			} else if status.Done {
				state = "done"
			}
			fmt.Fprintf(a.stdout, "%s: %s\n", status.OperationID, state)
			return nil
		},
	}
}

func (a *App) newResultCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "result <id>",
		Short: "Fetch the result of a finished operation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cleanup, err := a.client()
			if err != nil {
				return a.handleError(err)
			}
			defer cleanup()

			resp, err := client.GetRecognition(cmd.Context(), args[0])
			if err != nil {
				return a.handleError(err)
			}
			return a.printResult(args[0], resp)
		},
	}
}

func (a *App) newWaitCommand() *cobra.Command {
	var (
		timeout     time.Duration
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "wait <id>...",
		Short: "Wait for operations and print their results",
		Long: `Poll one or more operations until they finish and print the results
in the order the ids were given. The first failure stops the batch.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wait, err := a.waitTimeout(cmd, timeout)
			if err != nil {
				return a.handleError(err)
			}
			if !cmd.Flags().Changed("concurrency") {
				concurrency = a.cfg.Concurrency
			}

			client, cleanup, err := a.client()
			if err != nil {
				return a.handleError(err)
			}
			defer cleanup()

			var runner core.Runner = core.SequentialRunner{}
			if concurrency > 1 {
				runner = core.ConcurrentRunner{Limit: concurrency}
			}

			results, err := client.WaitMany(cmd.Context(), args, wait, nil, runner)
			if err != nil {
				return a.handleError(err)
			}
			return a.printResults(args, results)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 0, "maximum time to wait per operation (default from config, 60s)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 1, "number of operations waited on in parallel")

	return cmd
}
