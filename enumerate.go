package main

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	log "github.com/sirupsen/logrus"
)

// Version control metadata is never synced, never matched, never reported.
var svcDirectories = map[string]bool{
	".git": true,
	".svn": true,
}

// determineFilesToSync walks localPath and returns every file that survives
// the exclusion patterns, sorted lexicographically so logs are reproducible.
// localPath may also be a single file or symlink, in which case the same
// match is applied to just that path.
//
// Patterns use gitignore semantics: `*` and `**` wildcards, a leading `/`
// anchors to localPath, a trailing `/` restricts to directories, and `!`
// negates with last-match-wins precedence. When useGitignore is set, every
// .gitignore found under localPath (plus one in the working directory) is
// folded in, each interpreted relative to its own directory.
func determineFilesToSync(localPath string, excludes []string, useGitignore bool) ([]string, error) {
	patterns := make([]gitignore.Pattern, 0, len(excludes))
	for _, exclude := range excludes {
		patterns = append(patterns, gitignore.ParsePattern(exclude, nil))
	}

	if useGitignore {
		ignoreFiles, err := findGitignoreFiles(localPath)
		if err != nil {
			return nil, err
		}
		if len(ignoreFiles) == 0 {
			log.Warn("--gitignore option set, but no .gitignore files were found")
		}
		for _, ignoreFile := range ignoreFiles {
			filePatterns, err := readGitignore(ignoreFile.path, ignoreFile.domain)
			if err != nil {
				return nil, err
			}
			patterns = append(patterns, filePatterns...)
		}
	}

	matcher := gitignore.NewMatcher(patterns)

	info, err := os.Lstat(localPath)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", localPath, err)
	}
	if !info.IsDir() {
		if matcher.Match(splitPath(filepath.ToSlash(localPath)), false) {
			return nil, nil
		}
		return []string{localPath}, nil
	}

	var files []string
	err = filepath.WalkDir(localPath, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if svcDirectories[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(localPath, path)
		if relErr != nil {
			return relErr
		}
		if !matcher.Match(splitPath(filepath.ToSlash(rel)), false) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", localPath, err)
	}

	sort.Strings(files)
	return files, nil
}

type gitignoreFile struct {
	path   string
	domain []string
}

// findGitignoreFiles collects every .gitignore under root plus the one in
// the working directory, if present. Domains are relative to root so the
// matcher scopes each file's rules to its own directory.
func findGitignoreFiles(root string) ([]gitignoreFile, error) {
	var found []gitignoreFile
	if _, err := os.Stat(".gitignore"); err == nil {
		found = append(found, gitignoreFile{path: ".gitignore"})
	}

	info, err := os.Lstat(root)
	if err != nil || !info.IsDir() {
		return found, nil
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if svcDirectories[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != ".gitignore" {
			return nil
		}
		rel, relErr := filepath.Rel(root, filepath.Dir(path))
		if relErr != nil {
			return relErr
		}
		var domain []string
		if rel != "." {
			domain = splitPath(filepath.ToSlash(rel))
		}
		found = append(found, gitignoreFile{path: path, domain: domain})
		return nil
	})
	return found, err
}

func readGitignore(path string, domain []string) ([]gitignore.Pattern, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	var patterns []gitignore.Pattern
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, domain))
	}
	return patterns, scanner.Err()
}

func splitPath(slashed string) []string {
	return strings.Split(strings.TrimPrefix(slashed, "/"), "/")
}
