package cmd

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/pibridge/pibridge/pkg/client"
	"github.com/pibridge/pibridge/pkg/types"
)

var getCmd = &cobra.Command{
	Use:   "get <path> <name>...",
	Short: "Download files from the workspace",
	Long: `Download one or more files from the workspace into the server's
downloads directory. A single plain file is fetched directly; multiple names
or a directory are bundled into one ZIP archive.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureAPIKey(); err != nil {
			return err
		}
		if err := checkUser(); err != nil {
			return err
		}

		c := client.NewClient(baseURL, apiKey)
		localPaths, err := c.DownloadFiles(context.Background(), userName, splitPath(args[0]), args[1:])
		if err != nil {
			return fmt.Errorf("failed to download: %w", err)
		}

		for _, p := range localPaths {
			fmt.Printf("✓ Downloaded: %s\n", p)
		}
		return nil
	},
}

var putCmd = &cobra.Command{
	Use:   "put <path> <local-file>...",
	Short: "Upload local files into the workspace",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureAPIKey(); err != nil {
			return err
		}
		if err := checkUser(); err != nil {
			return err
		}

		c := client.NewClient(baseURL, apiKey)
		if err := c.UploadFiles(context.Background(), userName, splitPath(args[0]), args[1:]); err != nil {
			return fmt.Errorf("failed to upload: %w", err)
		}

		fmt.Printf("✓ Uploaded: %s\n", strings.Join(args[1:], ", "))
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream progress events for in-flight transfers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureAPIKey(); err != nil {
			return err
		}
		if err := checkUser(); err != nil {
			return err
		}

		wsURL, err := progressURL()
		if err != nil {
			return err
		}

		// The server only requires a token when a JWT secret is configured.
		c := client.NewClient(baseURL, apiKey)
		if token, err := c.ProgressToken(context.Background(), userName); err == nil {
			wsURL += "?token=" + url.QueryEscape(token)
		}

		conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		if err != nil {
			return fmt.Errorf("failed to connect to progress stream: %w", err)
		}
		defer conn.Close()

		fmt.Println("watching progress events (ctrl-c to stop)")
		for {
			var ev types.ProgressEvent
			if err := conn.ReadJSON(&ev); err != nil {
				return nil
			}
			fmt.Printf("%s\t%d\n", ev.Topic, ev.Value)
		}
	},
}

func progressURL() (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/progress"
	return u.String(), nil
}

func init() {
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(putCmd)
	rootCmd.AddCommand(watchCmd)
}
