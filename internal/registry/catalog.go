package registry

// CatalogEntry is one fixed device slot: id plus static placement metadata.
type CatalogEntry struct {
	ID       string
	Location string
	Floor    int
}

// DefaultPort is assumed for catalog slots with no announced device.
const DefaultPort = 80

// Catalog is the fixed ordered list of units the panel controls. The first
// entry doubles as the reference device when seeding the command for a
// select-all.
var Catalog = []CatalogEntry{
	{ID: "f3-ac-01", Location: "3F office east", Floor: 3},
	{ID: "f3-ac-02", Location: "3F office west", Floor: 3},
	{ID: "f3-ac-03", Location: "3F meeting room", Floor: 3},
	{ID: "f3-ac-04", Location: "3F lounge", Floor: 3},
	{ID: "f4-ac-01", Location: "4F office", Floor: 4},
	{ID: "f4-ac-02", Location: "4F storage", Floor: 4},
}

// IDs returns the catalog ids in display order.
func IDs() []string {
	out := make([]string, len(Catalog))
	for i, e := range Catalog {
		out[i] = e.ID
	}
	return out
}

// Lookup returns the catalog entry for id.
func Lookup(id string) (CatalogEntry, bool) {
	for _, e := range Catalog {
		if e.ID == id {
			return e, true
		}
	}
	return CatalogEntry{}, false
}
