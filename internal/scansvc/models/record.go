package models

// Record is one identified item as returned by the model and written to CSV.
type Record struct {
	Player            string `json:"Player"`
	Team              string `json:"Team"`
	Year              string `json:"Year"`
	Set               string `json:"Set"`
	CardNumber        string `json:"Card_Number"`
	Variation         string `json:"Variation"`
	ConditionNotes    string `json:"Condition_Notes"`
	EstimatedRawValue string `json:"Estimated_Raw_Value"`
	ArchiveLocation   string `json:"Archive_Location"`
}

// Columns is the CSV header, in file order.
var Columns = []string{
	"Player",
	"Team",
	"Year",
	"Set",
	"Card_Number",
	"Variation",
	"Condition_Notes",
	"Estimated_Raw_Value",
	"Archive_Location",
}

// Values returns the record fields in Columns order.
func (r Record) Values() []string {
	return []string{
		r.Player,
		r.Team,
		r.Year,
		r.Set,
		r.CardNumber,
		r.Variation,
		r.ConditionNotes,
		r.EstimatedRawValue,
		r.ArchiveLocation,
	}
}

// SetField assigns a field by its column name. Unknown columns are ignored.
func (r *Record) SetField(column, value string) bool {
	switch column {
	case "Player":
		r.Player = value
	case "Team":
		r.Team = value
	case "Year":
		r.Year = value
	case "Set":
		r.Set = value
	case "Card_Number":
		r.CardNumber = value
	case "Variation":
		r.Variation = value
	case "Condition_Notes":
		r.ConditionNotes = value
	case "Estimated_Raw_Value":
		r.EstimatedRawValue = value
	case "Archive_Location":
		r.ArchiveLocation = value
	default:
		return false
	}
	return true
}

// Title is the one-line label used on a slab.
func (r Record) Title() string {
	title := r.Year
	for _, part := range []string{r.Set, r.Player} {
		if part == "" {
			continue
		}
		if title != "" {
			title += " "
		}
		title += part
	}
	if r.CardNumber != "" {
		title += " #" + r.CardNumber
	}
	if title == "" {
		return "Unidentified item"
	}
	return title
}
