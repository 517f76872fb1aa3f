package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/bomview/bomview/internal/ui"
)

func shouldPromptForConfirm() bool {
	if isJSONOutput() {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) && isatty.IsTerminal(os.Stdin.Fd())
}

func promptForConfirm(message string) bool {
	if !shouldPromptForConfirm() {
		return false
	}
	if message == "" {
		message = "Continue?"
	}
	fmt.Printf("%s %s ", message, ui.Hint("[y/N]"))
	reader := bufio.NewReader(os.Stdin)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// confirmOrRequireYes asks before a destructive step. Without a terminal the
// caller must pass --yes instead.
func confirmOrRequireYes(yes bool, message string) (bool, error) {
	if yes {
		return true, nil
	}
	if !shouldPromptForConfirm() {
		return false, handleErrorMsg(ErrConfirmationRequired, "confirmation required", "Pass --yes to skip the prompt")
	}
	return promptForConfirm(message), nil
}
