package commands

import (
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docanchors/internal/foundation/errors"
	"git.home.luguber.info/inful/docanchors/internal/logfields"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Debounce time.Duration `default:"300ms" help:"Wait this long after the last change before reprocessing"`
	Files    []string      `arg:"" type:"existingfile" help:"Markdown files to watch"`
}

// Run prints section ids for every file, then again for each file whose
// content fingerprint changes, until interrupted.
func (cmd *WatchCmd) Run(g *Global, _ *CLI) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create file watcher").Build()
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			g.Logger.Error("Error closing file watcher", logfields.Error(err))
		}
	}()

	// Directories are watched instead of files so editors that replace the
	// file on save keep being seen.
	byAbs := make(map[string]string, len(cmd.Files))
	dirs := make(map[string]struct{})
	for _, f := range cmd.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve path").
				WithContext("document", f).
				Build()
		}
		byAbs[abs] = f
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to watch directory").
				WithContext("path", dir).
				Build()
		}
	}

	state := newWatchState()
	cmd.report(g, state, cmd.Files)
	g.Logger.Info("Watching documents", slog.Int("documents", len(cmd.Files)))

	pending := make(map[string]struct{})
	var debounce <-chan time.Time
	for {
		select {
		case <-g.Ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			path, watched := byAbs[filepath.Clean(event.Name)]
			if !watched || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			g.Logger.Debug("Document change detected", logfields.Document(path), slog.String("op", event.Op.String()))
			pending[path] = struct{}{}
			debounce = time.After(cmd.Debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			g.Logger.Error("File watcher error", logfields.Error(err))
		case <-debounce:
			debounce = nil
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			clear(pending)
			sort.Strings(paths)
			cmd.report(g, state, paths)
		}
	}
}

// report processes paths and prints the ids of documents whose fingerprint
// changed. Failures are logged so watching continues.
func (cmd *WatchCmd) report(g *Global, state *watchState, paths []string) {
	var docs []documentIDs
	for _, path := range paths {
		results, err := processFiles(g, []string{path})
		if err != nil {
			g.Logger.Error("Failed to process document", logfields.Document(path), logfields.Error(err))
			state.forget(path)
			continue
		}
		res := results[0]
		if !state.changed(path, res.Fingerprint) {
			continue
		}
		docs = append(docs, documentIDs{Document: path, Fingerprint: res.Fingerprint, Sections: res.Sections()})
	}
	if len(docs) == 0 {
		return
	}
	if err := writeIDsText(g.Stdout, docs); err != nil {
		g.Logger.Error("Failed to write ids", logfields.Error(err))
	}
}

// watchState remembers the last reported fingerprint per document.
type watchState struct {
	fingerprints map[string]string
}

func newWatchState() *watchState {
	return &watchState{fingerprints: make(map[string]string)}
}

// changed records fingerprint for path and reports whether it differs from
// the previous one.
func (s *watchState) changed(path, fingerprint string) bool {
	if prev, ok := s.fingerprints[path]; ok && prev == fingerprint {
		return false
	}
	s.fingerprints[path] = fingerprint
	return true
}

func (s *watchState) forget(path string) {
	delete(s.fingerprints, path)
}
