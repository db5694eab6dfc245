package models

import "fmt"

const noCabinetLabel = "Sem armário"

// LocationRecord is a storage place.
type LocationRecord struct {
	ID      string `json:"id"`
	Room    string `json:"room"`
	Cabinet string `json:"cabinet"`
}

// Label renders "room - cabinet" for logs and exports.
func (l LocationRecord) Label() string {
	cabinet := l.Cabinet
	if cabinet == "" {
		cabinet = noCabinetLabel
	}
	return fmt.Sprintf("%s - %s", l.Room, cabinet)
}
