package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/pkg/errors"
)

func (cli *commandLine) prune(ctx context.Context) error {
	report, err := cli.registry.PruneDangling(ctx)
	if err != nil {
		return errors.Wrap(err, "pruning dangling references")
	}
	fmt.Fprintf(cli.out, "pruned %d learning path and %d assessment reference(s) from %d organization(s)\n",
		report.LearningPaths, report.Assessments, report.Organizations)
	return nil
}

func (cli *commandLine) stats(ctx context.Context) error {
	stats, err := cli.dashSvc.Stats(ctx)
	if err != nil {
		return errors.Wrap(err, "computing stats")
	}
	summaries, err := cli.dashSvc.OrganizationSummaries(ctx)
	if err != nil {
		return errors.Wrap(err, "computing organization stats")
	}

	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Organizations\t%d\t(%d active)\n", stats.Organizations, stats.ActiveOrganizations)
	fmt.Fprintf(w, "Users\t%d\t(%d active, %d admins, %d students)\n", stats.Users, stats.ActiveUsers, stats.Admins, stats.Students)
	fmt.Fprintf(w, "Learning paths\t%d\t(%d published, %d modules, %d organizations)\n",
		stats.LearningPaths, stats.PublishedLearningPaths, stats.TotalModules, stats.LearningPathAssignees)
	fmt.Fprintf(w, "Assessments\t%d\t(%d published, %d organizations)\n",
		stats.Assessments, stats.PublishedAssessments, stats.AssessmentAssignees)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "ORGANIZATION\tSTATUS\tADMINS\tSTUDENTS\tPATHS\tASSESSMENTS")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\n", s.Name, s.Status, s.Admins, s.Students, s.LearningPaths, s.Assessments)
	}
	return w.Flush()
}
