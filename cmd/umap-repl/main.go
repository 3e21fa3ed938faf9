// Command umap-repl is an interactive shell over a live
// unifiedmap.Map[string, string], grounded on calvinalkan-agent-task's
// cmd/sloty REPL: a peterh/liner prompt with command history and tab
// completion dispatching on the first whitespace-separated field.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/calvinalkan/unifiedmap/pkg/unifiedmap"
	"github.com/calvinalkan/unifiedmap/pkg/unifiedmap/persist"
)

func main() {
	repl := &REPL{m: unifiedmap.New[string, string]()}

	if err := repl.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// REPL is the interactive command loop, mirroring cmd/sloty's REPL shape
// (liner state, Fields-based dispatch, a history file under $HOME).
type REPL struct {
	m     *unifiedmap.Map[string, string]
	liner *liner.State
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".umap_history")
}

var commandNames = []string{ //nolint:gochecknoglobals
	"put", "get", "del", "delete", "iter", "keys", "values", "entries",
	"retain", "save", "load", "info", "clear", "help", "exit", "quit", "q",
}

// Run starts the REPL loop.
func (r *REPL) Run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	if f, err := os.Open(historyFile()); err == nil {
		_, _ = r.liner.ReadHistory(f)
		_ = f.Close()
	}

	fmt.Println("umap-repl - unifiedmap.Map[string, string] shell")
	fmt.Println("Type 'help' for available commands.")
	fmt.Println()

	for {
		line, err := r.liner.Prompt("umap> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Println("\nBye!")

				break
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.liner.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			r.saveHistory()

			return nil

		case "help", "?":
			r.printHelp()

		case "put":
			r.cmdPut(args)

		case "get":
			r.cmdGet(args)

		case "del", "delete":
			r.cmdDelete(args)

		case "iter":
			r.cmdIter()

		case "keys":
			r.cmdKeys()

		case "values":
			r.cmdValues()

		case "entries":
			r.cmdEntries()

		case "retain":
			r.cmdRetain(args)

		case "save":
			r.cmdSave(args)

		case "load":
			r.cmdLoad(args)

		case "info":
			r.cmdInfo()

		case "clear":
			r.m.Clear()
			fmt.Println("cleared")

		default:
			fmt.Printf("unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}

	r.saveHistory()

	return nil
}

func (r *REPL) saveHistory() {
	if path := historyFile(); path != "" {
		if f, err := os.Create(path); err == nil { //nolint:gosec // fixed path under $HOME
			_, _ = r.liner.WriteHistory(f)
			_ = f.Close()
		}
	}
}

func (r *REPL) completer(line string) []string {
	var completions []string

	lower := strings.ToLower(line)
	for _, name := range commandNames {
		if strings.HasPrefix(name, lower) {
			completions = append(completions, name)
		}
	}

	return completions
}

func (r *REPL) printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  put <key> <value>       Insert or overwrite an entry")
	fmt.Println("  get <key>               Retrieve an entry")
	fmt.Println("  del <key>               Delete an entry")
	fmt.Println("  iter                    Print every live entry")
	fmt.Println("  keys                    Print the key set")
	fmt.Println("  values                  Print the values collection")
	fmt.Println("  entries                 Print the entry set")
	fmt.Println("  retain <prefix>         Keep only keys with the given prefix")
	fmt.Println("  save <file>             Serialize the map to file")
	fmt.Println("  load <file>             Replace the map with file's contents")
	fmt.Println("  info                    Show size and diagnostics")
	fmt.Println("  clear                   Remove every entry")
	fmt.Println("  help                    Show this help")
	fmt.Println("  exit / quit / q         Exit")
}

func (r *REPL) cmdPut(args []string) {
	if len(args) < 2 { //nolint:mnd
		fmt.Println("usage: put <key> <value>")

		return
	}

	old, had := r.m.Put(args[0], args[1])
	if had {
		fmt.Printf("overwrote %q: %q -> %q\n", args[0], old, args[1])
	} else {
		fmt.Printf("inserted %q: %q\n", args[0], args[1])
	}
}

func (r *REPL) cmdGet(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: get <key>")

		return
	}

	v, ok := r.m.Get(args[0])
	if !ok {
		fmt.Println("(not found)")

		return
	}

	fmt.Printf("%q\n", v)
}

func (r *REPL) cmdDelete(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: del <key>")

		return
	}

	old, had := r.m.Remove(args[0])
	if !had {
		fmt.Println("(not found)")

		return
	}

	fmt.Printf("removed %q: %q\n", args[0], old)
}

func (r *REPL) cmdIter() {
	r.m.ForEachKeyValue(func(k, v string) bool {
		fmt.Printf("%q => %q\n", k, v)

		return true
	})
}

func (r *REPL) cmdKeys() {
	unifiedmap.KeySetOf(r.m).ForEach(func(k string) bool {
		fmt.Printf("%q\n", k)

		return true
	})
}

func (r *REPL) cmdValues() {
	unifiedmap.ValuesOf(r.m).ForEach(func(v string) bool {
		fmt.Printf("%q\n", v)

		return true
	})
}

func (r *REPL) cmdEntries() {
	unifiedmap.EntrySetOf(r.m).ForEach(func(e unifiedmap.Entry[string, string]) bool {
		fmt.Printf("%q => %q\n", e.Key(), e.Value())

		return true
	})
}

func (r *REPL) cmdRetain(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: retain <prefix>")

		return
	}

	prefix := args[0]

	removed := unifiedmap.KeySetOf(r.m).RetainAll(func(k string) bool {
		return strings.HasPrefix(k, prefix)
	})

	fmt.Printf("removed %d entr%s, %d remain\n", removed, plural(removed), r.m.Size())
}

func plural(n int) string {
	if n == 1 {
		return "y"
	}

	return "ies"
}

func (r *REPL) cmdSave(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: save <file>")

		return
	}

	if err := persist.SaveFile(args[0], r.m); err != nil {
		fmt.Println("error:", err)

		return
	}

	fmt.Printf("saved %d entries to %s\n", r.m.Size(), args[0])
}

func (r *REPL) cmdLoad(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: load <file>")

		return
	}

	loaded, err := persist.LoadFile[string, string](args[0])
	if err != nil {
		fmt.Println("error:", err)

		return
	}

	r.m = loaded
	fmt.Printf("loaded %d entries from %s\n", r.m.Size(), args[0])
}

func (r *REPL) cmdInfo() {
	diag := unifiedmap.DiagnosticsOf(r.m)
	fmt.Printf("size=%s colliding_buckets=%d memory_words=%d\n",
		strconv.Itoa(r.m.Size()), diag.CollidingBuckets, diag.MemoryWords)
}
