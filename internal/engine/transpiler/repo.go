package transpiler

import (
	"context"
	"path"

	"go.trai.ch/chip/internal/core/domain"
)

// ProcessAll processes every active project in registry order.
func (t *Transpiler) ProcessAll(ctx context.Context) (domain.Summary, error) {
	return t.ProcessRepos(ctx, t.registry.Active())
}

// ProcessRepos processes the given projects in order.
// Per-file failures are logged and counted; only cancellation stops the walk early.
func (t *Transpiler) ProcessRepos(ctx context.Context, repos []string) (domain.Summary, error) {
	var summary domain.Summary
	for _, repo := range repos {
		s, err := t.ProcessRepo(ctx, repo)
		summary.Merge(s)
		if err != nil {
			return summary, err
		}
	}
	return summary, nil
}

// ProcessRepo walks the allowed directories and extra files of one project.
func (t *Transpiler) ProcessRepo(ctx context.Context, repo string) (domain.Summary, error) {
	var summary domain.Summary

	for _, dir := range t.ws.Filter.Dirs(repo) {
		for file := range t.walker.WalkFiles(t.ws.Layout.Abs(path.Join(repo, dir))) {
			if err := ctx.Err(); err != nil {
				return summary, err
			}
			summary.Add(t.processLogged(ctx, file))
		}
	}

	for _, file := range t.ws.Filter.Files(repo) {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Add(t.processLogged(ctx, t.ws.Layout.Abs(path.Join(repo, file))))
	}

	return summary, nil
}

// processLogged processes one file and logs its error, if any.
func (t *Transpiler) processLogged(ctx context.Context, file string) domain.Outcome {
	outcome, err := t.Process(ctx, file)
	if err != nil {
		t.logger.Error(err)
	}
	return outcome
}
