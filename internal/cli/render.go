package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/roach88/vatsync/internal/taxrates"
)

// countryName returns the English name for an ISO region code, or the code
// itself when x/text does not know it.
func countryName(code string) string {
	region, err := language.ParseRegion(code)
	if err != nil {
		return code
	}
	if name := display.English.Regions().Name(region); name != "" {
		return name
	}
	return code
}

// descriptorTable renders planned descriptors.
type descriptorTable []taxrates.Descriptor

func (t descriptorTable) String() string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COUNTRY\tNAME\tKIND\tPERCENT\tJURISDICTION\tDISPLAY NAME\tDESCRIPTION")
	for _, d := range t {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			d.Country, countryName(d.Country), d.Kind(), taxrates.FormatPercentage(d.Percentage),
			d.Jurisdiction, d.DisplayName, d.Description)
	}
	w.Flush()
	return sb.String()
}

// rateRow is a remote rate tagged with the account it belongs to.
type rateRow struct {
	Account string `json:"account"`
	taxrates.Rate
}

// rateTable renders remote rates.
type rateTable []rateRow

func (t rateTable) String() string {
	if len(t) == 0 {
		return "No tax rates.\n"
	}
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ACCOUNT\tID\tCOUNTRY\tNAME\tKIND\tPERCENT\tACTIVE\tMANAGED\tDISPLAY NAME")
	for _, r := range t {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%t\t%t\t%s\n",
			r.Account, r.ID, r.Country, countryName(r.Country), r.Kind(),
			taxrates.FormatPercentage(r.Percentage), r.Active, taxrates.IsManaged(r.Rate), r.DisplayName)
	}
	w.Flush()
	return sb.String()
}

func rowsFor(account string, rates []taxrates.Rate) rateTable {
	rows := make(rateTable, len(rates))
	for i, r := range rates {
		rows[i] = rateRow{Account: account, Rate: r}
	}
	return rows
}

// syncReport renders per-account sync results.
type syncReport []taxrates.SyncResult

func (r syncReport) String() string {
	var sb strings.Builder
	for _, res := range r {
		prefix := ""
		if res.DryRun {
			prefix = "[dry run] "
		}
		fmt.Fprintf(&sb, "%s%s: deactivated %d, created %d tax rates\n",
			prefix, res.Account, len(res.Deactivated), len(res.Created))
	}
	return sb.String()
}
