package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Confirmer answers yes/no questions before destructive operations. Tests
// substitute a canned implementation; production reads the terminal.
type Confirmer interface {
	Confirm(prompt string) bool
}

// terminalConfirmer prompts on stdout and reads a line from stdin. Delete
// tasks run concurrently, so prompts are serialized with a mutex; only the
// asking task blocks, its siblings keep working.
type terminalConfirmer struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

func newTerminalConfirmer() *terminalConfirmer {
	return &terminalConfirmer{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
	}
}

func (c *terminalConfirmer) Confirm(prompt string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintf(c.out, "%s [yN]: ", prompt)
	answer, err := c.in.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
