package filter

import (
	"net/url"
	"strconv"
	"strings"
)

// ParseQuery reads a Config from URL query parameters:
//
//	page, limit                 pagination
//	sort, direction (or order)  primary sort key
//	<field>_min, <field>_max    inclusive range on a numeric field
//	<field>=<value>             equality on a categorical field
//	fields=a,b                  projection
//
// Unknown keys and unparsable numbers are ignored. Pages past MaxPage are
// clamped. sort=index orders token indexes numerically ("9" before "10").
func ParseQuery(q url.Values) Config {
	cfg := Config{
		Ranges: map[string]Range{},
		Equals: map[string]string{},
	}

	for key, vals := range q {
		if len(vals) == 0 {
			continue
		}
		val := vals[0]

		switch key {
		case "page":
			if n, err := strconv.Atoi(val); err == nil {
				cfg.Page = n
			}
		case "limit":
			if n, err := strconv.Atoi(val); err == nil {
				cfg.Limit = n
			}
		case "sort":
			if cfg.Sort == nil {
				cfg.Sort = &SortSpec{Direction: Desc}
			}
			cfg.Sort.Field = val
		case "direction", "order":
			if cfg.Sort == nil {
				cfg.Sort = &SortSpec{}
			}
			cfg.Sort.Direction = Direction(strings.ToLower(val))
		case "fields":
			cfg.Fields = strings.Split(val, ",")
		default:
			switch {
			case strings.HasSuffix(key, "_min"):
				field := strings.TrimSuffix(key, "_min")
				r := cfg.Ranges[field]
				r.Min = val
				cfg.Ranges[field] = r
			case strings.HasSuffix(key, "_max"):
				field := strings.TrimSuffix(key, "_max")
				r := cfg.Ranges[field]
				r.Max = val
				cfg.Ranges[field] = r
			default:
				cfg.Equals[key] = val
			}
		}
	}
	return cfg
}
