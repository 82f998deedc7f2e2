package commands

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/lumen-labs/lumen/sse"
)

var (
	askServer  string
	askMode    string
	askMessage string
)

var askCmd = &cobra.Command{
	Use:   "ask <image-file>",
	Short: "Request a description of an image",
	Long: `Send an image to a running lumen service and print the streamed
description as it arrives.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askServer, "server", "http://localhost:8080", "service base URL")
	askCmd.Flags().StringVar(&askMode, "mode", "one-pass", `session mode: "one-pass" or "iterative"`)
	askCmd.Flags().StringVar(&askMessage, "message", "", "question about the image (optional)")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}

	body, err := json.Marshal(map[string]string{
		"image":       base64.StdEncoding.EncodeToString(raw),
		"mode":        askMode,
		"userMessage": askMessage,
	})
	if err != nil {
		return err
	}

	resp, err := http.Post(askServer+"/api/process", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("contact service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service error: %s", readErrorBody(resp.Body))
	}

	dec := sse.NewDecoder(resp.Body)
	for {
		ev, err := dec.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read stream: %w", err)
		}
		if ev.Done {
			break
		}
		if ev.Err != "" {
			fmt.Println()
			return fmt.Errorf("stream error: %s", ev.Err)
		}
		fmt.Print(ev.Text)
	}
	fmt.Println()
	return nil
}

func readErrorBody(r io.Reader) string {
	var body struct {
		Error string `json:"error"`
	}
	data, err := io.ReadAll(r)
	if err == nil && json.Unmarshal(data, &body) == nil && body.Error != "" {
		return body.Error
	}
	return string(data)
}
