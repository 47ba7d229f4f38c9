package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/defistate/defistate-arb/arbitrage"
	tokenindexer "github.com/defistate/defistate-arb/protocols/tokenregistry/indexer"
)

// --- VISUAL CONSTANTS ---
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Green = "\033[32m"
	Cyan  = "\033[36m"
	Gray  = "\033[37m"
)

func header(w io.Writer, title string) {
	fmt.Fprintln(w, "\n"+Bold+Cyan+":: "+title+" ::"+Reset)
}

// symbol renders a token by symbol when known. Unknown addresses fall back to
// a shortened checksummed form, other IDs to a shortened ID.
func symbol(tokens tokenindexer.IndexedTokenSystem, id string) string {
	if common.IsHexAddress(id) {
		address := common.HexToAddress(id)
		if t, ok := tokens.GetByAddress(address); ok && t.Symbol != "" {
			return t.Symbol
		}
		id = address.Hex()
	} else if t, ok := tokens.GetByID(id); ok && t.Symbol != "" {
		return t.Symbol
	}
	if len(id) > 12 {
		return id[:6] + "..." + id[len(id)-4:]
	}
	return id
}

func amount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(6)
}

func printReport(out io.Writer, tokens tokenindexer.IndexedTokenSystem, opps []arbitrage.Opportunity, total int) {
	header(out, "ARBITRAGE OPPORTUNITIES")
	fmt.Fprintf(out, "%sDetected %d profitable opportunities, showing %d%s\n", Bold, total, len(opps), Reset)
	if len(opps) == 0 {
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 4, ' ', 0)
	fmt.Fprintln(w, "#\tCYCLE\tINPUT\tPROFIT\tBREAK-EVEN\t")
	fmt.Fprintln(w, "-\t-----\t-----\t------\t----------\t")
	for i, opp := range opps {
		route := make([]string, 0, len(opp.Path)+1)
		route = append(route, symbol(tokens, opp.StartToken))
		for _, step := range opp.Path {
			route = append(route, symbol(tokens, step.To))
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s%s%s\t%s\t\n",
			i+1,
			strings.Join(route, " -> "),
			amount(opp.OptimalInput),
			Green, amount(opp.Profit), Reset,
			amount(opp.BreakEvenInput),
		)
	}
	w.Flush()

	for i, opp := range opps {
		fmt.Fprintf(out, "\n%s[%d]%s %s\n", Bold, i+1, Reset, strings.Join(opp.Cycle, " -> "))
		if opp.Degenerate {
			fmt.Fprintln(out, Gray+"    reconstructed from an unclosed predecessor walk"+Reset)
		}
		for _, step := range opp.Path {
			fmt.Fprintf(out, "    %s -> %s: %s\n", symbol(tokens, step.From), symbol(tokens, step.To), amount(step.Amount))
		}
	}
}
