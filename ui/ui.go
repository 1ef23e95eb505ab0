// Package ui implements the display and confirmation collaborators of the device.
package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/ruteri/xpub-export-device/interfaces"
)

// FormatPath renders path as "m/84'/0'/0'", or MasterKeyLabel for the empty path.
func FormatPath(path interfaces.DerivationPath) string {
	if path.IsMaster() {
		return interfaces.MasterKeyLabel
	}
	return path.String()
}

// PathFormatter implements interfaces.PathFormatter with FormatPath.
type PathFormatter struct{}

// FormatPath calls the package level FormatPath.
func (PathFormatter) FormatPath(path interfaces.DerivationPath) string {
	return FormatPath(path)
}

// StaticConfirmer answers every prompt the same way. Used for unattended simulators and tests.
type StaticConfirmer struct {
	Approve bool
}

// ConfirmPubkey returns Approve, or false once ctx is done.
func (c StaticConfirmer) ConfirmPubkey(ctx context.Context, pathText string, unsafe bool, xpub string) bool {
	if ctx.Err() != nil {
		return false
	}
	return c.Approve
}

// TerminalConfirmer shows the prompt on out and reads the answer from in.
// Only "y" or "yes" approves.
type TerminalConfirmer struct {
	in  io.Reader
	out io.Writer

	mu       sync.Mutex
	once     sync.Once
	lines    chan string
	prompted bool
}

// NewTerminalConfirmer creates a confirmer reading answers from in.
func NewTerminalConfirmer(in io.Reader, out io.Writer) *TerminalConfirmer {
	return &TerminalConfirmer{
		in:    in,
		out:   out,
		lines: make(chan string, 1),
	}
}

func (c *TerminalConfirmer) readLines() {
	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		c.lines <- scanner.Text()
	}
	close(c.lines)
}

// ConfirmPubkey shows the prompt and waits for an answer. A done ctx or a closed input denies.
func (c *TerminalConfirmer) ConfirmPubkey(ctx context.Context, pathText string, unsafe bool, xpub string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.once.Do(func() { go c.readLines() })

	// discard answers typed while no prompt was shown
	for drained := !c.prompted; !drained; {
		select {
		case _, ok := <-c.lines:
			if !ok {
				return false
			}
		default:
			drained = true
		}
	}
	c.prompted = true

	var b strings.Builder
	b.WriteString("\nConfirm public key export\n")
	fmt.Fprintf(&b, "  Path:       %s\n", pathText)
	if unsafe {
		b.WriteString("  WARNING:    the derivation path is unusual, approve only if you trust the requesting software\n")
	}
	fmt.Fprintf(&b, "  Public key: %s\n", xpub)
	b.WriteString("Approve? [y/N]: ")
	if _, err := io.WriteString(c.out, b.String()); err != nil {
		return false
	}

	select {
	case <-ctx.Done():
		return false
	case line, ok := <-c.lines:
		if !ok {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	}
}
