package main

import (
    "context"
    "encoding/json"
    "fmt"
    "io"
    "os"
    "strconv"
    "strings"
    "time"

    "github.com/olekukonko/tablewriter"
    "github.com/spf13/cobra"

    "quoteapi/internal/config"
    "quoteapi/internal/httpx"
    "quoteapi/internal/logging"
    "quoteapi/internal/provider/registry"
    "quoteapi/internal/quote"
)

var (
    symbolsCSV   string
    configPath   string
    providerName string
    asJSON       bool
    timeoutSec   int
)

var rootCmd = &cobra.Command{
    Use:   "fetch [symbols...]",
    Short: "Fetch latest and previous trading-day quotes from the configured provider",
    Example: "  fetch 7203.T 6758.T\n  fetch --symbols 7203.T,6758.T --json",
    RunE: func(cmd *cobra.Command, args []string) error {
        symbols := splitCSV(strings.Join(append([]string{symbolsCSV}, args...), ","))
        if len(symbols) == 0 {
            return fmt.Errorf("no symbols provided")
        }

        cfg, err := config.Load(configPath)
        if err != nil { return fmt.Errorf("config: %w", err) }
        if providerName != "" { cfg.Provider.Name = providerName }
        if timeoutSec > 0 { cfg.Server.RequestTimeoutSec = timeoutSec }

        log := logging.New(cfg.Log)
        timeout := time.Duration(cfg.Server.RequestTimeoutSec) * time.Second
        p, err := registry.New(cfg, httpx.New(timeout), log)
        if err != nil { return err }

        ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
        defer cancel()
        results := quote.NewService(p, cfg.Provider.MaxConcurrency, log).Batch(ctx, symbols)

        out := cmd.OutOrStdout()
        if asJSON {
            enc := json.NewEncoder(out)
            enc.SetIndent("", "  ")
            return enc.Encode(struct {
                Quotes []quote.Result `json:"quotes"`
            }{Quotes: results})
        }
        renderTable(out, results)
        return nil
    },
}

func init() {
    rootCmd.Flags().StringVarP(&symbolsCSV, "symbols", "s", os.Getenv("SYMBOLS"), "comma-separated ticker symbols")
    rootCmd.Flags().StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "path to config.json (optional)")
    rootCmd.Flags().StringVar(&providerName, "provider", "", "override provider.name (yahoo, financego, polygon)")
    rootCmd.Flags().BoolVar(&asJSON, "json", false, "print the batch response as JSON")
    rootCmd.Flags().IntVar(&timeoutSec, "timeout", 0, "request timeout seconds")
}

func main() {
    cobra.CheckErr(rootCmd.Execute())
}

func renderTable(w io.Writer, results []quote.Result) {
    table := tablewriter.NewWriter(w)
    table.SetHeader([]string{"Symbol", "Date", "Close", "Prev Close", "High", "Low", "Volume", "Prev Volume", "Error"})
    table.SetAutoFormatHeaders(false)
    for _, r := range results {
        switch v := r.(type) {
        case quote.Success:
            table.Append([]string{
                v.Symbol, v.Date,
                formatPrice(v.Close), formatPrice(v.PrevClose), formatPrice(v.High), formatPrice(v.Low),
                formatVolume(v.Volume), formatVolume(v.PrevVolume), "",
            })
        case quote.Failure:
            table.Append([]string{v.Symbol, "", "", "", "", "", "", "", v.Message})
        }
    }
    table.Render()
}

func formatPrice(v *float64) string {
    if v == nil { return "-" }
    return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatVolume(v *int64) string {
    if v == nil { return "-" }
    return strconv.FormatInt(*v, 10)
}

func splitCSV(s string) []string {
    parts := strings.Split(s, ",")
    out := make([]string, 0, len(parts))
    for _, p := range parts {
        p = strings.TrimSpace(p)
        if p != "" { out = append(out, p) }
    }
    return out
}
