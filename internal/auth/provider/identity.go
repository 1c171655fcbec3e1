package provider

// Identity is the account record owned by the external identity provider.
// It contains facts only, no decisions: who the provider says this is,
// never whether a profile exists for them.
type Identity struct {
	ID       string         // provider-issued stable id, the sole correlation key
	Email    string         // unique within the provider, case-insensitive
	Metadata map[string]any // free-form provider metadata, at minimum "name"
}

// Name returns the display name stored in provider metadata, or "" when
// the provider never recorded one.
func (i *Identity) Name() string {
	if i == nil || i.Metadata == nil {
		return ""
	}
	name, _ := i.Metadata["name"].(string)
	return name
}
