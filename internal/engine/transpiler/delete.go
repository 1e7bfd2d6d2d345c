package transpiler

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"

	"go.trai.ch/chip/internal/core/domain"
	"go.trai.ch/zerr"
)

// Delete drops the artifacts and cache records of a removed source file or directory.
// For a directory every cached source beneath it is dropped.
func (t *Transpiler) Delete(ctx context.Context, path string) (domain.Outcome, error) {
	start := t.now()

	rel, err := t.ws.Layout.Rel(path)
	if err != nil || rel == "." || t.ws.Filter.Ignored(rel) {
		return domain.OutcomeSkipped, nil
	}

	var (
		deleted int
		errs    error
	)
	drop := func(key string) {
		if ctx.Err() != nil {
			return
		}
		ok, err := t.dropArtifact(key)
		if err != nil {
			errs = errors.Join(errs, err)
			return
		}
		if ok {
			deleted++
		}
	}

	drop(rel)
	prefix := rel + "/"
	for key := range t.store.Paths() {
		if strings.HasPrefix(key, prefix) {
			drop(key)
		}
	}

	elapsed := t.now().Sub(start)
	switch {
	case errs != nil:
		t.metrics.ObserveFile(domain.OutcomeFailed, domain.StaleNone, elapsed)
		return domain.OutcomeFailed, errs
	case deleted > 0:
		return domain.OutcomeDeleted, nil
	default:
		return domain.OutcomeSkipped, nil
	}
}

// dropArtifact removes the artifact and cache record of one source path.
// The artifact is kept when another source still maps to it.
func (t *Transpiler) dropArtifact(rel string) (bool, error) {
	abs := t.ws.Layout.Abs(rel)
	_, cached := t.store.Get(rel)

	removed := false
	if t.ws.Filter.IsCandidate(rel) && !t.hasLiveSibling(abs) {
		target, err := t.ws.Layout.TargetPath(abs)
		if err != nil {
			return false, err
		}
		switch err := os.Remove(target); {
		case err == nil:
			removed = true
		case !errors.Is(err, fs.ErrNotExist):
			return false, zerr.With(zerr.Wrap(err, domain.ErrOutputDeleteFailed.Error()), "target", target)
		}
	}

	if cached {
		if err := t.store.Remove(rel); err != nil {
			return false, err
		}
	}

	if !removed && !cached {
		return false, nil
	}

	t.logger.Info(rel + " (deleted)")
	t.metrics.ArtifactDeleted()
	t.metrics.ObserveFile(domain.OutcomeDeleted, domain.StaleNone, 0)
	return true, nil
}

func (t *Transpiler) hasLiveSibling(abs string) bool {
	for _, sibling := range t.ws.Layout.Siblings(abs) {
		if info, err := os.Stat(sibling); err == nil && info.Mode().IsRegular() {
			return true
		}
	}
	return false
}
