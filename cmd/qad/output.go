package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/alfredjeanlab/qastream/internal/model"
	"github.com/alfredjeanlab/qastream/internal/ui"
)

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// printLinkSet writes the registry entries of one question as a table.
func printLinkSet(w io.Writer, set *model.LinkSet) {
	activity := set.ActivityID
	if activity == "" {
		activity = ui.RenderMuted("(none)")
	} else {
		activity = ui.RenderID(activity)
	}
	fmt.Fprintf(w, "Question:  %s\n", ui.RenderID(set.QuestionID))
	fmt.Fprintf(w, "Activity:  %s\n", activity)

	if len(set.Answers) == 0 && len(set.Comments) == 0 {
		return
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tID\tLANG\tACTIVITIES")
	for _, a := range set.Answers {
		fmt.Fprintf(tw, "answer\t%s\t\t%s\n", a.AnswerID, strings.Join(a.ActivityIDs, ", "))
	}
	for _, c := range set.Comments {
		fmt.Fprintf(tw, "comment\t%s\t%s\t%s\n", c.CommentID, c.Language, c.ActivityID)
	}
	tw.Flush()
}
