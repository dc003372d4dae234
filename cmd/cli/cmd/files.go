package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pibridge/pibridge/pkg/client"
)

// splitPath turns "docs/reports" into workspace path segments. An empty or
// "/" path means the workspace root.
func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

var lsCmd = &cobra.Command{
	Use:   "ls [path]",
	Short: "List files in the workspace",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureAPIKey(); err != nil {
			return err
		}
		if err := checkUser(); err != nil {
			return err
		}

		var segments []string
		if len(args) == 1 {
			segments = splitPath(args[0])
		}

		c := client.NewClient(baseURL, apiKey)
		files, err := c.ListFiles(context.Background(), userName, segments)
		if err != nil {
			return fmt.Errorf("failed to list workspace: %w", err)
		}

		if len(files) == 0 {
			fmt.Println("(empty directory)")
			return nil
		}

		longFormat, _ := cmd.Flags().GetBool("long")
		if longFormat {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, f := range files {
				fmt.Fprintf(w, "%s\t%d\t%s\n", f.Kind, f.Size, f.Name)
			}
			w.Flush()
		} else {
			for _, f := range files {
				if f.IsDir() {
					fmt.Printf("%s/\n", f.Name)
				} else {
					fmt.Println(f.Name)
				}
			}
		}

		return nil
	},
}

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <path> <name>",
	Short: "Create a folder in the workspace",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureAPIKey(); err != nil {
			return err
		}
		if err := checkUser(); err != nil {
			return err
		}

		c := client.NewClient(baseURL, apiKey)
		if err := c.CreateFolder(context.Background(), userName, splitPath(args[0]), args[1]); err != nil {
			return fmt.Errorf("failed to create folder: %w", err)
		}

		fmt.Printf("✓ Folder created: %s\n", args[1])
		return nil
	},
}

var mvCmd = &cobra.Command{
	Use:   "mv <path> <old-name> <new-name>",
	Short: "Rename an entry in the workspace",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureAPIKey(); err != nil {
			return err
		}
		if err := checkUser(); err != nil {
			return err
		}

		c := client.NewClient(baseURL, apiKey)
		if err := c.RenameFile(context.Background(), userName, splitPath(args[0]), args[1], args[2]); err != nil {
			return fmt.Errorf("failed to rename: %w", err)
		}

		fmt.Printf("✓ Renamed: %s -> %s\n", args[1], args[2])
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <path> <name>...",
	Short: "Remove files or directory trees from the workspace",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureAPIKey(); err != nil {
			return err
		}
		if err := checkUser(); err != nil {
			return err
		}

		c := client.NewClient(baseURL, apiKey)
		if err := c.DeleteFiles(context.Background(), userName, splitPath(args[0]), args[1:]); err != nil {
			return fmt.Errorf("failed to delete: %w", err)
		}

		fmt.Printf("✓ Removed: %s\n", strings.Join(args[1:], ", "))
		return nil
	},
}

var catCmd = &cobra.Command{
	Use:   "cat <path> <name>",
	Short: "Read a file from the workspace",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureAPIKey(); err != nil {
			return err
		}
		if err := checkUser(); err != nil {
			return err
		}

		c := client.NewClient(baseURL, apiKey)
		content, err := c.ReadFile(context.Background(), userName, splitPath(args[0]), args[1])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		fmt.Print(content)
		return nil
	},
}

var writeCmd = &cobra.Command{
	Use:   "write <path> <name> <content>",
	Short: "Write content to a file in the workspace",
	Long: `Write content to a file. Use - to read from stdin.
Example: pib write docs notes.txt "hello world"
         echo "hello" | pib write docs notes.txt -`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureAPIKey(); err != nil {
			return err
		}
		if err := checkUser(); err != nil {
			return err
		}

		content := args[2]
		if content == "-" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read from stdin: %w", err)
			}
			content = string(data)
		}

		c := client.NewClient(baseURL, apiKey)
		if err := c.SaveFile(context.Background(), userName, splitPath(args[0]), args[1], content); err != nil {
			return fmt.Errorf("failed to save file: %w", err)
		}

		fmt.Printf("✓ File written: %s\n", args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(mkdirCmd)
	rootCmd.AddCommand(mvCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(catCmd)
	rootCmd.AddCommand(writeCmd)

	lsCmd.Flags().BoolP("long", "l", false, "Use long listing format")
}
