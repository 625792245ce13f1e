/*
Package cli provides the output formatting, styling, error and signal
helpers used by the scout command.

Output Formatting:

Command results are printed as styled text, JSON or YAML:

	format, err := cli.ParseFormat(flagValue)
	if err != nil {
		return err
	}
	if format == cli.FormatText {
		return cli.WriteAssessment(os.Stdout, ingredients, assessment, cli.DefaultStyles())
	}
	return cli.NewFormatter(format).FormatTo(os.Stdout, assessment.Verdict)

Styled text uses lipgloss and degrades to plain text when stdout is not a
terminal.

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler()
	defer stop()
*/
package cli
