package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"project-builder-backend/internal/tasks"
)

func printTaskList(w io.Writer, list []tasks.Task) {
	name := color.New(color.Bold)
	for i, t := range list {
		fmt.Fprintf(w, "%2d. %s\n", i+1, name.Sprint(t.Name))
		fmt.Fprintf(w, "    %s\n", color.HiBlackString("%s (%s)", t.Description, t.AssignedTo))
	}
}
