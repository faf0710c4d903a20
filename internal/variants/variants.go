// Package variants reads and writes availability declarations: the textual
// form of "which representations this server offers, at which weights".
// The format is an RFC 8941 structured-field List of tokens, each with an
// optional decimal "w" parameter defaulting to 1:
//
//	utf-8, iso-8859-5;w=0.5, unicode-1-1;w=0.2
//	application/json, text/html;w=0.9
//
// Configuration files, CLI flags, and tool inputs all use this form. Weight
// range validation happens in the negotiator, not here, so an out-of-range
// weight is still reported against the offer that carries it.
package variants

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dunglas/httpsfv"

	"conneg/internal/negotiation"
)

// ParseOffers parses an availability declaration, preserving declaration
// order. Members must be bare tokens or strings; the only recognized
// parameter is "w", which must be a decimal or integer.
func ParseOffers(raw string) ([]negotiation.Offer, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("empty availability declaration")
	}

	list, err := httpsfv.UnmarshalList([]string{raw})
	if err != nil {
		return nil, fmt.Errorf("invalid availability declaration: %w", err)
	}

	offers := make([]negotiation.Offer, 0, len(list))
	for _, member := range list {
		item, ok := member.(httpsfv.Item)
		if !ok {
			return nil, errors.New("availability members must be items, not inner lists")
		}

		var value string
		switch v := item.Value.(type) {
		case httpsfv.Token:
			value = string(v)
		case string:
			value = v
		default:
			return nil, fmt.Errorf("availability member %v must be a token or string", item.Value)
		}

		weight := negotiation.QualityMax
		if w, ok := item.Params.Get("w"); ok {
			switch wv := w.(type) {
			case float64:
				weight = negotiation.QValueFromFloat(wv)
			case int64:
				weight = negotiation.QValueFromFloat(float64(wv))
			default:
				return nil, fmt.Errorf("weight for %q must be a decimal", value)
			}
		}

		offers = append(offers, negotiation.Offer{Value: value, Weight: weight})
	}
	return offers, nil
}

// FormatOffers renders offers back into declaration form, for logs and
// round-tripping. Weights of 1 are omitted.
func FormatOffers(offers []negotiation.Offer) (string, error) {
	list := make(httpsfv.List, 0, len(offers))
	for _, o := range offers {
		item := httpsfv.NewItem(httpsfv.Token(o.Value))
		if o.Weight != negotiation.QualityMax {
			item.Params.Add("w", float64(o.Weight)/1000)
		}
		list = append(list, item)
	}

	out, err := httpsfv.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("formatting availability: %w", err)
	}
	return out, nil
}
