package agent

import (
	"bufio"
	"os"
	"strings"
)

// TitleSource reports the title of the currently running game. An empty
// string means nothing is active. How titles are detected (process lists,
// launcher integrations) is outside this package.
type TitleSource interface {
	Current() (string, error)
}

// FileSource reads the current title from the first line of a file, the
// contract used by the launcher trackers that write a game-name file. A
// missing file means no game is running.
type FileSource struct {
	Path string
}

// Current returns the first line of the file, trimmed.
func (s FileSource) Current() (string, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()), nil
	}
	return "", scanner.Err()
}

// StaticSource always reports the same title, for tests and one-shot runs.
type StaticSource string

func (s StaticSource) Current() (string, error) {
	return string(s), nil
}
