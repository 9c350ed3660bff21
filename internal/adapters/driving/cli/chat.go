package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
)

var (
	chatDocumentID     string
	chatConversationID string
	chatHistory        bool
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Ask a question about a document",
	Long: `Sends one turn to a conversation. Without --conversation a new
conversation is started; its id is printed so later turns can continue it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatDocumentID, "document", "d", "", "document to answer from")
	chatCmd.Flags().StringVarP(&chatConversationID, "conversation", "c", "", "conversation to continue")
	chatCmd.Flags().BoolVar(&chatHistory, "history", false, "print the full conversation after the reply")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	message := strings.TrimSpace(strings.Join(args, " "))
	if message == "" {
		return errors.New("message is required")
	}

	return withApp(cmd.Context(), func(app *App) error {
		if app.Chat == nil {
			return errors.New("chat service not configured")
		}

		result, err := app.Chat.HandleTurn(cmd.Context(), domain.TurnRequest{
			ConversationID: chatConversationID,
			DocumentID:     chatDocumentID,
			Message:        message,
		})
		if err != nil {
			var genErr *domain.GenerationError
			if errors.As(err, &genErr) && genErr.ConversationID != "" {
				return fmt.Errorf("no reply for conversation %s: %w", genErr.ConversationID, err)
			}
			return fmt.Errorf("chat failed: %w", err)
		}

		cmd.Printf("Conversation: %s\n\n", result.ConversationID)
		if chatHistory {
			for _, m := range result.Messages {
				cmd.Printf("[%s] %s\n", m.Role, m.Content)
			}
			return nil
		}
		if result.AI != nil {
			cmd.Println(result.AI.Content)
		}
		return nil
	})
}
