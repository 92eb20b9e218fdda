package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "smartwallet-cli",
		Short: "Smart Wallet CLI tool",
		Long:  `A command line interface for interacting with the Smart Wallet API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Smart Wallet API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Wallet commands
	walletCmd := &cobra.Command{
		Use:   "wallet",
		Short: "Wallet operations",
	}

	topUpCmd := &cobra.Command{
		Use:   "top-up [wallet-id] [amount]",
		Short: "Top up a wallet",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			topUp(args[0], args[1])
		},
	}

	walletCmd.AddCommand(topUpCmd)
	rootCmd.AddCommand(walletCmd)

	// Transfer command
	transferCmd := &cobra.Command{
		Use:   "transfer [user-id] [from-wallet-id] [to-username] [amount]",
		Short: "Transfer funds to another user by username",
		Args:  cobra.ExactArgs(4),
		Run: func(cmd *cobra.Command, args []string) {
			transfer(args[0], args[1], args[2], args[3])
		},
	}
	rootCmd.AddCommand(transferCmd)

	// Renewal commands
	renewalCmd := &cobra.Command{
		Use:   "renewals",
		Short: "Subscription renewal operations",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Trigger one renewal pass",
		Run: func(cmd *cobra.Command, args []string) {
			runRenewals()
		},
	}

	renewalCmd.AddCommand(runCmd)
	rootCmd.AddCommand(renewalCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func topUp(walletID, amount string) {
	result := postJSON("/api/v1/wallets/"+walletID+"/top-up", map[string]any{
		"amount": amount,
	})

	fmt.Printf("Transaction: %s\n", result["id"])
	fmt.Printf("Status: %s\n", result["status"])
	if reason, ok := result["failure_reason"].(string); ok {
		fmt.Printf("Failure reason: %s\n", reason)
	}
	fmt.Printf("Balance left: %v\n", result["balance_left"])
}

func transfer(userID, fromWalletID, toUsername, amount string) {
	result := postJSON("/api/v1/transfers", map[string]any{
		"user_id":        userID,
		"from_wallet_id": fromWalletID,
		"to_username":    toUsername,
		"amount":         amount,
	})

	fmt.Printf("Transaction: %s\n", result["id"])
	fmt.Printf("Status: %s\n", result["status"])
	if reason, ok := result["failure_reason"].(string); ok {
		fmt.Printf("Failure reason: %s\n", reason)
	}
	fmt.Printf("Balance left: %v\n", result["balance_left"])
}

func runRenewals() {
	result := postJSON("/api/v1/renewals/run", map[string]any{})

	fmt.Printf("Processed: %v\n", result["processed"])
}

func postJSON(path string, payload map[string]any) map[string]any {
	body, err := json.Marshal(payload)
	if err != nil {
		fmt.Printf("Failed to encode request: %v\n", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(respBody))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(respBody, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	return result
}
