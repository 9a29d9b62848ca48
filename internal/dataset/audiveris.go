package dataset

func init() {
	Datasets["audiveris"] = &Dataset{
		Name:       "audiveris",
		Extensions: []string{".xml"},
	}
}
