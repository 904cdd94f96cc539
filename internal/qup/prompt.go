package qup

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// interactiveMu ensures only one interactive prompt reads its input at a time.
var interactiveMu sync.Mutex

// Prompter asks a yes/no question on behalf of an operation that needs an
// interactive go-ahead. Production code reads os.Stdin; tests supply a
// scripted reader.
type Prompter struct {
	In io.Reader
}

// Confirm prints the question with a [Y/n] suffix and reads one line of
// input. Empty input, "y" and "yes" (case-insensitive) authorize; anything
// else, including a read error, declines.
func (p *Prompter) Confirm(format string, a ...any) bool {
	interactiveMu.Lock()
	defer interactiveMu.Unlock()

	in := p.In
	if in == nil {
		in = os.Stdin
	}
	reader := bufio.NewReader(in)

	cPrintf(colNote, "%s [Y/n]: ", fmt.Sprintf(format, a...))
	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		return false // Ctrl+D and friends default to "no"
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes" || response == ""
}
