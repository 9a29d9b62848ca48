package dataset

func init() {
	Datasets["edirom"] = &Dataset{
		Name:       "edirom",
		Extensions: []string{".xml"},
	}
}
