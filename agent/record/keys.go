package record

import "strings"

const defaultKeyPrefix = "enchantedday:"

// keyspace lays out the redis keys shared by the redis and upstash backends:
//
//	<prefix><table>:rec:<id>         JSON record
//	<prefix><table>:ids              set of every id
//	<prefix><table>:wedding:<wid>    set of ids for one wedding
type keyspace struct {
	prefix string
	table  string
}

func newKeyspace(prefix, table string) keyspace {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return keyspace{prefix: prefix, table: table}
}

func (k keyspace) record(id string) string {
	return k.prefix + k.table + ":rec:" + id
}

func (k keyspace) ids() string {
	return k.prefix + k.table + ":ids"
}

func (k keyspace) wedding(weddingID string) string {
	return k.prefix + k.table + ":wedding:" + weddingID
}

// index picks the id set to scan for a filter.
func (k keyspace) index(f Filter) string {
	if wid := f.WeddingID(); wid != "" {
		return k.wedding(wid)
	}
	return k.ids()
}

func (k keyspace) records(ids []string) []string {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = k.record(id)
	}
	return keys
}
