package ftp

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// errEscapesRoot marks a filesystem path that would leave the server root.
// Sessions map it to reply 550.
var errEscapesRoot = fmt.Errorf("path escapes server root")

// resolveVirtual maps a client-supplied path against the current working
// directory to a normalized virtual path.
//
// The resolution is purely textual: the input is anchored at "/" when
// absolute or at cwd otherwise, split on "/", and normalized segment by
// segment. "." is skipped and ".." pops the previous segment, silently
// ignored at the root so the result can never climb above "/". An empty
// input resolves to cwd itself.
func resolveVirtual(cwd, input string) string {
	var start string
	switch {
	case strings.HasPrefix(input, "/"):
		start = input
	case input == "":
		start = cwd
	default:
		start = cwd + "/" + input
	}

	segments := strings.Split(start, "/")
	stack := make([]string, 0, len(segments))

	for _, seg := range segments {
		switch seg {
		case "", ".":
			// skip
		case "..":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		default:
			stack = append(stack, seg)
		}
	}

	return "/" + strings.Join(stack, "/")
}

// toFilesystem maps a virtual path onto the filesystem under root.
//
// The virtual path is expected to be normalized (output of resolveVirtual).
// The concatenated result must still have root as a prefix after OS
// normalization; anything else is rejected with errEscapesRoot. Symlinks
// inside root can still point outside it, so the nearest existing ancestor
// of the result is resolved and rechecked against the resolved root.
func toFilesystem(root, virtual string) (string, error) {
	abs := filepath.Join(root, filepath.FromSlash(virtual))

	if !withinRoot(root, abs) {
		return "", errEscapesRoot
	}

	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", fmt.Errorf("resolve root: %w", err)
	}

	real, err := evalExistingAncestor(abs)
	if err != nil {
		return "", err
	}
	if !withinRoot(realRoot, real) {
		return "", errEscapesRoot
	}

	return abs, nil
}

// withinRoot reports whether path equals root or lives beneath it.
func withinRoot(root, path string) bool {
	if path == root {
		return true
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}

// evalExistingAncestor resolves symlinks on the deepest existing ancestor
// of path and rejoins the missing suffix. Targets of STOR and MKD do not
// exist yet, so the check walks up until something does.
func evalExistingAncestor(path string) (string, error) {
	suffix := ""
	current := path

	for {
		resolved, err := filepath.EvalSymlinks(current)
		if err == nil {
			return filepath.Join(resolved, suffix), nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", err
		}
		suffix = filepath.Join(filepath.Base(current), suffix)
		current = parent
	}
}
