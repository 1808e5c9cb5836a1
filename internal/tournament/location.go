package tournament

const LocationOnline = "Online"

// Locations lists every accepted tournament location.
var Locations = []string{
	"Alabama", "Alaska", "Arizona", "Arkansas", "California", "Colorado",
	"Connecticut", "Delaware", "District of Columbia", "Florida", "Georgia",
	"Hawaii", "Idaho", "Illinois", "Indiana", "Iowa", "Kansas", "Kentucky",
	"Louisiana", "Maine", "Maryland", "Massachusetts", "Michigan", "Minnesota",
	"Mississippi", "Missouri", "Montana", "Nebraska", "Nevada", "New Hampshire",
	"New Jersey", "New Mexico", "New York", "North Carolina", "North Dakota",
	"Ohio", "Oklahoma", "Oregon", "Pennsylvania", "Rhode Island",
	"South Carolina", "South Dakota", "Tennessee", "Texas", "Utah", "Vermont",
	"Virginia", "Washington", "West Virginia", "Wisconsin", "Wyoming",
	LocationOnline,
}

var locationSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Locations))
	for _, l := range Locations {
		m[l] = struct{}{}
	}
	return m
}()

func ValidLocation(l string) bool {
	_, ok := locationSet[l]
	return ok
}
