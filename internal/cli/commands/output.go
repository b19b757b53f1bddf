package commands

import (
	"fmt"
	"time"

	"github.com/fatih/color"

	"StoreText/internal/cli/model"
)

var (
	successText = color.New(color.FgGreen).SprintFunc()
	errorText   = color.New(color.FgRed).SprintFunc()
	lockedText  = color.New(color.FgYellow).SprintFunc()
	mutedText   = color.New(color.FgHiBlack).SprintFunc()
)

func printSummary(s model.Summary) {
	lock := "  "
	if s.Encrypted {
		lock = lockedText("🔒")
	}
	fmt.Fprintf(Out, "%s %s  %s  %s\n", lock, s.ID, mutedText(s.UpdatedAt.Local().Format(time.DateTime)), s.Title)
}

func printNote(label string, n model.Note) {
	fmt.Fprintln(Out, successText(label))
	fmt.Fprintf(Out, "  id:    %s\n", n.ID)
	fmt.Fprintf(Out, "  title: %s\n", n.Title)
	if n.Encrypted() {
		fmt.Fprintf(Out, "  state: %s\n", lockedText("encrypted"))
	}
}
