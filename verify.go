package main

import "sdkcheck/kb"

// verify checks a resolved chain against the knowledge base. Unknown
// operations succeed: the knowledge base is best-effort and a newly added
// API must not break callers (accepted false negative). Setter names that
// are not tracked properties are ignored — they are legitimate optional
// properties. The returned finding lists every missing property at once,
// in the required set's canonical order.
func verify(c Classification, base *kb.Base) *Finding {
	required, ok := base.RequiredProperties(c.Key.Service, c.Key.Operation)
	if !ok {
		return nil
	}

	observed := make(map[string]bool, len(c.Setters))
	for _, s := range c.Setters {
		observed[s] = true
	}

	var missing []string
	for _, prop := range required {
		if !observed[prop] {
			missing = append(missing, prop)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &Finding{
		Kind:      MissingProperties,
		Pos:       c.Call.Pos,
		Operation: c.Key.Operation,
		Service:   c.Key.Service,
		Missing:   missing,
	}
}
