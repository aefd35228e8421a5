package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/wraithcrypt/aef/pkg/aef"
)

const (
	colorReset   = "\033[0m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
)

// opResult is one row of the post-walk summary table, grounded on
// cmd/zec's renderColoredSecretList.
type opResult struct {
	Path   string
	Suite  aef.CipherSuite
	OK     bool
	Detail string
}

func renderSummary(results []opResult) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatTitle
	t.Style().Format.HeaderAlign = text.AlignCenter
	t.Style().Color.Border = text.Colors{text.FgCyan}
	t.Style().Color.Separator = text.Colors{text.FgCyan}
	t.Style().Color.Header = text.Colors{text.FgMagenta}

	t.AppendHeader(table.Row{"Path", "Suite", "Result", "Detail"})

	var ok, failed int
	for _, r := range results {
		status := colorGreen + "ok" + colorReset
		if !r.OK {
			status = colorRed + "error" + colorReset
			failed++
		} else {
			ok++
		}
		t.AppendRow(table.Row{r.Path, r.Suite.String(), status, r.Detail})
	}
	t.AppendSeparator()
	t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d ok / %d failed", ok, failed), ""})

	t.Render()
}

// renderHeader prints a container's public header fields without needing
// the password, grounded on cmd/zec's renderColoredHeader.
func renderHeader(path string, h *aef.HeaderView) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatTitle
	t.Style().Format.HeaderAlign = text.AlignCenter
	t.Style().Color.Border = text.Colors{text.FgCyan}
	t.Style().Color.Separator = text.Colors{text.FgCyan}
	t.Style().Color.Header = text.Colors{text.FgMagenta}

	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{colorYellow + "Container" + colorReset, path},
		{colorYellow + "Version" + colorReset, h.Version},
		{colorYellow + "Suite" + colorReset, h.Suite.String()},
		{colorYellow + "Flags" + colorReset, h.FlagsString()},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{colorYellow + "KDF Memory (KiB)" + colorReset, h.KDF.MemoryKiB},
		{colorYellow + "KDF Time" + colorReset, h.KDF.Time},
		{colorYellow + "KDF Parallelism" + colorReset, h.KDF.Parallelism},
		{colorYellow + "Salt" + colorReset, hex.EncodeToString(h.Salt[:])},
		{colorYellow + "Nonce Base" + colorReset, hex.EncodeToString(h.NonceBase[:])},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{colorYellow + "Chunk Size" + colorReset, h.ChunkSize},
		{colorYellow + "Filename Length" + colorReset, h.NameLength},
	})

	t.Render()
}
