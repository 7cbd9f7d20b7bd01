package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
)

var cacheAPIAddr string

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Operate a running shiftsolve server's memoization cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the running server's cache occupancy",
	RunE:  runCacheStats,
}

var cacheFlushCmd = &cobra.Command{
	Use:   "flush",
	Short: "Clear the running server's memoization cache",
	RunE:  runCacheFlush,
}

func init() {
	cacheCmd.PersistentFlags().StringVar(&cacheAPIAddr, "addr", "http://localhost:8099", "base URL of a running shiftsolve serve instance")
	cacheCmd.AddCommand(cacheStatsCmd, cacheFlushCmd)
}

func runCacheFlush(cmd *cobra.Command, args []string) error {
	resp, err := http.Post(cacheAPIAddr+"/cache/flush", "application/json", nil)
	if err != nil {
		return fmt.Errorf("cache flush: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("cache flush: server returned %d: %s", resp.StatusCode, body)
	}
	fmt.Println("cache flushed")
	return nil
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	resp, err := http.Get(cacheAPIAddr + "/cache/stats")
	if err != nil {
		return fmt.Errorf("cache stats: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("cache stats: server returned %d: %s", resp.StatusCode, body)
	}

	var stats struct {
		Entries int `json:"entries"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return fmt.Errorf("cache stats: decoding response: %w", err)
	}
	fmt.Printf("cache entries: %d\n", stats.Entries)
	return nil
}
