package docker

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/moby/patternmatcher"
	"github.com/moby/patternmatcher/ignorefile"
)

// DefaultDockerfile is the Dockerfile name used when a build does not name one.
const DefaultDockerfile = "Dockerfile"

const dockerignoreFile = ".dockerignore"

// WriteBuildContext writes the directory at dir to w as a tar archive suitable as a build
// context. Entries matched by dir/.dockerignore are left out using the engine's own pattern
// rules: patterns are anchored at the context root and later "!" exceptions re-include paths.
// The Dockerfile and the .dockerignore file are always archived, even inside an ignored
// directory. Symlinks are archived as links.
func WriteBuildContext(w io.Writer, dir, dockerfile string) error {
	if dockerfile == "" {
		dockerfile = DefaultDockerfile
	}

	matcher, err := loadDockerignore(dir, dockerfile)
	if err != nil {
		return err
	}

	tw := tar.NewWriter(w)

	var (
		parentDirs  []string
		parentMatch []patternmatcher.MatchInfo
	)

	err = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}
		if rel == "." {
			return nil
		}

		if matcher != nil {
			for len(parentDirs) > 0 && !strings.HasPrefix(rel, parentDirs[len(parentDirs)-1]+string(filepath.Separator)) {
				parentDirs = parentDirs[:len(parentDirs)-1]
				parentMatch = parentMatch[:len(parentMatch)-1]
			}

			var parent patternmatcher.MatchInfo
			if len(parentMatch) > 0 {
				parent = parentMatch[len(parentMatch)-1]
			}

			excluded, info, err := matcher.MatchesUsingParentResults(rel, parent)
			if err != nil {
				return fmt.Errorf("failed to match %s against .dockerignore: %w", rel, err)
			}
			if entry.IsDir() {
				parentDirs = append(parentDirs, rel)
				parentMatch = append(parentMatch, info)
			}

			if excluded {
				if entry.IsDir() && !reincludes(matcher, rel) {
					return filepath.SkipDir
				}
				return nil
			}
		}

		return addToBuildContext(tw, path, filepath.ToSlash(rel))
	})
	if err != nil {
		return fmt.Errorf("failed to archive build context %q: %w", dir, err)
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("failed to finish build context archive: %w", err)
	}
	return nil
}

// loadDockerignore returns nil when dir has no .dockerignore.
func loadDockerignore(dir, dockerfile string) (*patternmatcher.PatternMatcher, error) {
	path := filepath.Join(dir, dockerignoreFile)
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}
	defer file.Close()

	patterns, err := ignorefile.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %q: %w\nCheck the ignore patterns", path, err)
	}
	patterns = append(patterns, "!"+dockerignoreFile, "!"+filepath.ToSlash(filepath.Clean(dockerfile)))

	matcher, err := patternmatcher.New(patterns)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %q: %w\nCheck the ignore patterns", path, err)
	}
	return matcher, nil
}

// reincludes reports whether an exception pattern could match something under the
// excluded directory rel, in which case the directory still has to be walked.
func reincludes(matcher *patternmatcher.PatternMatcher, rel string) bool {
	if !matcher.Exclusions() {
		return false
	}

	prefix := rel + string(filepath.Separator)
	for _, pattern := range matcher.Patterns() {
		if pattern.Exclusion() && strings.HasPrefix(pattern.String()+string(filepath.Separator), prefix) {
			return true
		}
	}
	return false
}

func addToBuildContext(tw *tar.Writer, path, name string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return err
	}

	var link string
	if info.Mode()&os.ModeSymlink != 0 {
		link, err = os.Readlink(path)
		if err != nil {
			return fmt.Errorf("failed to read symlink %s: %w", name, err)
		}
	}

	header, err := tar.FileInfoHeader(info, link)
	if err != nil {
		return fmt.Errorf("failed to build header for %s: %w", name, err)
	}
	header.Name = name
	if info.IsDir() && !strings.HasSuffix(header.Name, "/") {
		header.Name += "/"
	}
	header.Uname, header.Gname = "", ""
	header.Uid, header.Gid = 0, 0

	if err := tw.WriteHeader(header); err != nil {
		return fmt.Errorf("failed to write header for %s: %w", name, err)
	}

	if !info.Mode().IsRegular() {
		return nil
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", name, err)
	}
	defer file.Close()

	if _, err := io.Copy(tw, file); err != nil {
		return fmt.Errorf("failed to write file %s: %w", name, err)
	}
	return nil
}
