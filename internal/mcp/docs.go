package mcp

import (
	"context"
	"fmt"
	"strconv"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/eggsim/internal/catalog"
	"github.com/rpggio/eggsim/internal/format"
)

const serverInstructions = `eggsim runs an incremental egg-clicking game. One player state lives in this server
and keeps producing while the server is up.

Core loop:
1) Orient: call get_state (resources, rates, costs, next tier) and get_catalog (ids and effects).
2) Earn: call click (up to 100 clicks per call). Producers add resource every tick.
3) Spend: purchase_upgrade / purchase_producer. Rejected purchases return a coded error
   (INSUFFICIENT_RESOURCE, MAX_LEVEL, UNKNOWN_UPGRADE, UNKNOWN_PRODUCER) and change nothing.
4) Tiers unlock from lifetime earnings; select_tier switches the active multiplier.
5) prestige resets the run for prestige currency once prestige_reward in get_state is above zero.

Saves:
- The server autosaves; save_game forces a write.
- export_save / import_save move progress as a base64 string. A bad string returns MALFORMED_SAVE
  and leaves the game untouched.
- reset_game deletes the stored save; settings survive.
- list_save_history (sqlite storage only) returns earlier saves as import strings.

Docs:
- eggsim://docs/index
- eggsim://docs/rules
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var indexDoc = docResource{
	URI:         "eggsim://docs/index",
	Name:        "docs_index",
	Title:       "eggsim docs index",
	Description: "Entry point: tools by purpose and where to read more.",
	Content: `# eggsim docs

## Tools

| Purpose | Tools |
|---|---|
| Read | ` + "`get_state`, `get_catalog`" + ` |
| Earn | ` + "`click`" + ` |
| Spend | ` + "`purchase_upgrade`, `purchase_producer`" + ` |
| Progress | ` + "`select_tier`, `prestige`" + ` |
| Persist | ` + "`save_game`, `export_save`, `import_save`, `reset_game`, `list_save_history`" + ` |
| Settings | ` + "`update_settings`" + ` |

Every mutating tool returns the tiers and achievements it unlocked.

## Error codes

- ` + "`INSUFFICIENT_RESOURCE`" + `: wait or click, then retry.
- ` + "`MAX_LEVEL`" + `: the upgrade cannot be bought again.
- ` + "`TIER_LOCKED`" + `: lifetime earnings are below the tier threshold.
- ` + "`PRESTIGE_UNAVAILABLE`" + `: prestige reward is still zero.
- ` + "`MALFORMED_SAVE`" + `: the import string did not decode.
- ` + "`STORAGE_ERROR`" + `: the save backend failed; state is still in memory.
- ` + "`INVALID_PARAMS`" + `: arguments out of range.

See ` + "`eggsim://docs/rules`" + ` for formulas.
`,
}

const rulesTemplate = `# Rules

## Clicks

click value = floor(base × click multipliers × tier multiplier × prestige multiplier, plus a share of
the production rate from click-production upgrades). Base click value is %[1]s. A click is critical
with crit chance (× %[2]s); otherwise it is golden with golden chance (× %[3]s). Chances are
capped at %[4]s.

## Production

rate = Σ producers (owned × base rate) × production multipliers × speed multipliers × tier multiplier
× prestige multiplier. Production is credited on every tick of the game loop.

## Costs

upgrade cost = floor(base × growth^level); producer cost = floor(base × growth^owned).

## Prestige

reward = floor((lifetime earned / %[5]s)^(1/%[6]s)). Each prestige currency unit adds %[7]s to the
prestige multiplier, more with prestige-bonus upgrades. Prestige keeps prestige currency, unlocked
tiers and achievements, and play time; everything else resets.

## Offline

On start the server credits %[8]s of the production rate for the time since the last save, when
away longer than %[9]s and up to %[10]s.
`

// rulesDoc renders the rules page from the values of the loaded catalog.
func rulesDoc(cat *catalog.Catalog) docResource {
	p, b := cat.Prestige(), cat.Balance()
	return docResource{
		URI:         "eggsim://docs/rules",
		Name:        "docs_rules",
		Title:       "eggsim rules",
		Description: "Click, production, cost and prestige formulas with this server's values.",
		Content: fmt.Sprintf(rulesTemplate,
			number(b.BaseClickValue),
			number(b.CritMultiplier),
			number(b.GoldenMultiplier),
			percent(b.ChanceCap),
			format.Number(p.BaseRequirement, format.Standard),
			number(p.ScalingExponent),
			percent(p.BonusPerUnit),
			percent(b.OfflineEarningsRate),
			b.MinOfflineDuration,
			b.MaxOfflineDuration,
		),
	}
}

func docResources(cat *catalog.Catalog) []docResource {
	return []docResource{indexDoc, rulesDoc(cat)}
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func percent(v float64) string {
	return strconv.FormatFloat(v*100, 'g', 4, 64) + "%"
}

func registerDocResources(server *sdkmcp.Server, cat *catalog.Catalog) {
	for _, doc := range docResources(cat) {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
