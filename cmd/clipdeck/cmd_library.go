package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/clipdeck/board"
	"github.com/lixenwraith/clipdeck/trigger"
)

var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Copy audio files into clip storage and add them to the catalog",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runImport,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List imported sounds",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var renameCmd = &cobra.Command{
	Use:   "rename <sound-id> <name>",
	Short: "Rename a sound",
	Args:  cobra.ExactArgs(2),
	RunE:  runRename,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <sound-id>",
	Short: "Delete a sound, its file and every trigger bound to it",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var mapCmd = &cobra.Command{
	Use:   "map <trigger> [<sound-id>]",
	Short: "Bind a trigger to a sound, or clear it when no sound is given",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runMap,
}

var triggersCmd = &cobra.Command{
	Use:   "triggers",
	Short: "Show the nine triggers and their bindings",
	Args:  cobra.NoArgs,
	RunE:  runTriggers,
}

// withBoard opens a silent stack, runs fn and saves before returning
func withBoard(fn func(b *board.Board) error) (err error) {
	st, err := openStack(appCfg, false)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, st.close())
	}()
	return fn(st.Board())
}

func runImport(cmd *cobra.Command, args []string) error {
	return withBoard(func(b *board.Board) error {
		var errs []error
		for _, path := range args {
			snd, err := b.ImportFile(path)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", snd.ID, snd.Name)
		}
		return errors.Join(errs...)
	})
}

func runList(cmd *cobra.Command, _ []string) error {
	return withBoard(func(b *board.Board) error {
		renderSounds(cmd.OutOrStdout(), b.Snapshot())
		return nil
	})
}

func runRename(cmd *cobra.Command, args []string) error {
	return withBoard(func(b *board.Board) error {
		if _, ok := b.Snapshot().Sound(args[0]); !ok {
			return fmt.Errorf("no sound with id %q", args[0])
		}
		b.RenameSound(args[0], args[1])
		return nil
	})
}

func runDelete(cmd *cobra.Command, args []string) error {
	return withBoard(func(b *board.Board) error {
		if _, ok := b.Snapshot().Sound(args[0]); !ok {
			return fmt.Errorf("no sound with id %q", args[0])
		}
		b.DeleteSound(args[0])
		fmt.Fprintln(cmd.OutOrStdout(), b.Snapshot().Status)
		return nil
	})
}

func runMap(cmd *cobra.Command, args []string) error {
	t, err := trigger.Parse(args[0])
	if err != nil {
		return err
	}
	id := ""
	if len(args) == 2 {
		id = args[1]
	}
	return withBoard(func(b *board.Board) error {
		if id != "" {
			if _, ok := b.Snapshot().Sound(id); !ok {
				return fmt.Errorf("no sound with id %q", id)
			}
		}
		if err := b.SetMapping(t.Key(), id); err != nil {
			return err
		}
		renderTriggers(cmd.OutOrStdout(), b.Snapshot())
		return nil
	})
}

func runTriggers(cmd *cobra.Command, _ []string) error {
	return withBoard(func(b *board.Board) error {
		renderTriggers(cmd.OutOrStdout(), b.Snapshot())
		return nil
	})
}
