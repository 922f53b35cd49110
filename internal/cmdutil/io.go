package cmdutil

import (
	"fmt"
	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"os"
	"time"
)

var (
	loadingSpinner = spinner.New(spinner.CharSets[14], time.Millisecond*100, spinner.WithWriter(os.Stderr))
)

func PrintE(message string) {
	_, _ = fmt.Fprintln(os.Stderr, color.RedString(message))
}

func Print(message string) {
	_, _ = fmt.Fprintln(os.Stdout, message)
}

func PrintS(message string) {
	_, _ = fmt.Fprintln(os.Stdout, color.GreenString(message))
}

func StartLoading(message string) {
	loadingSpinner.Suffix = " " + message
	loadingSpinner.Start()
}

func StopLoading() {
	loadingSpinner.Stop()
}
