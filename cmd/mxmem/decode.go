package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MeetiX-OS/meetixos/kern/call"
)

func init() {
	rootCmd.AddCommand(newDecodeCmd())
	rootCmd.AddCommand(newClassesCmd())
}

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <class> <fn-id>",
		Short: "Decode a raw kernel function path",
		Long: `The decode command reconstructs a kernel function path from its raw
(class, function id) trap-frame encoding, rejecting undeclared pairs the
same way the kernel's system-call entry does.

Example:
  mxmem decode 3 0
  mxmem decode 12 1`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(args)
		},
	}
}

func runDecode(args []string) error {
	class, err := strconv.ParseUint(args[0], 0, 64)
	if err != nil {
		return fmt.Errorf("bad class %q: %w", args[0], err)
	}
	fnID, err := strconv.ParseUint(args[1], 0, 64)
	if err != nil {
		return fmt.Errorf("bad function id %q: %w", args[1], err)
	}

	path, err := call.PathFromRaw(uint(class), uint(fnID))
	if err != nil {
		return err
	}
	if jsonOut {
		rawClass, rawFn := path.Raw()
		return printJSON(map[string]interface{}{
			"class":   rawClass,
			"fn_id":   rawFn,
			"display": path.String(),
		})
	}
	printInfo("%s\n", path)
	return nil
}

func newClassesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classes",
		Short: "List the kernel call classes and their function tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for class := 0; class < call.NumClasses(); class++ {
				c := call.Class(class)
				printInfo("%2d %-12s", class, c)
				for fn := 0; fn < call.FnCount(c); fn++ {
					path, err := call.PathFromRaw(uint(class), uint(fn))
					if err != nil {
						return err
					}
					printInfo(" %d=%s", fn, shortFnName(path))
				}
				printInfo("\n")
			}
			return nil
		},
	}
}

// shortFnName strips the KernFnPath::Class(...) wrapper for table output.
func shortFnName(p call.FnPath) string {
	s := p.String()
	if i := len(s) - 1; i > 0 && s[i] == ')' {
		if j := strings.LastIndexByte(s, '('); j >= 0 {
			return s[j+1 : i]
		}
	}
	return s
}
