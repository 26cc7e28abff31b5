package models

import "encoding/json"

// Dataset is the whole persisted state: five top-level collections read and
// written as a unit through the dataset store.
type Dataset struct {
	Users          []User          `json:"users"`
	Observations   []Observation   `json:"observations"`
	Projects       []Project       `json:"projects"`
	Tags           []Tag           `json:"tags"`
	AuthChallenges []AuthChallenge `json:"authChallenges"`
}

// NewDataset returns an empty dataset with all collections allocated, so a
// freshly seeded file serializes as five empty arrays rather than nulls.
func NewDataset() *Dataset {
	return &Dataset{
		Users:          []User{},
		Observations:   []Observation{},
		Projects:       []Project{},
		Tags:           []Tag{},
		AuthChallenges: []AuthChallenge{},
	}
}

// Normalize repairs collections after decoding data written by older or
// foreign producers: nil top-level collections become empty, and per-record
// defaults (status, confidence, nil slices) are filled in.
func (d *Dataset) Normalize() {
	if d.Users == nil {
		d.Users = []User{}
	}
	if d.Observations == nil {
		d.Observations = []Observation{}
	}
	if d.Projects == nil {
		d.Projects = []Project{}
	}
	if d.Tags == nil {
		d.Tags = []Tag{}
	}
	if d.AuthChallenges == nil {
		d.AuthChallenges = []AuthChallenge{}
	}

	for i := range d.Observations {
		o := &d.Observations[i]
		if o.Context == nil {
			o.Context = []ContextItem{}
		}
		if o.Tags == nil {
			o.Tags = []string{}
		}
		if o.Links == nil {
			o.Links = []Link{}
		}
		if o.Attachments == nil {
			o.Attachments = []Attachment{}
		}
		if o.Status == "" {
			o.Status = StatusDraft
		}
		if o.Confidence == "" {
			o.Confidence = ConfidenceMedium
		}
	}
}

// Clone returns a deep copy of the dataset. The JSON round-trip keeps the
// copy honest as the model evolves.
func (d *Dataset) Clone() (*Dataset, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	out := &Dataset{}
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, err
	}
	out.Normalize()
	return out, nil
}
