package dataset

func init() {
	Datasets["homus"] = &Dataset{
		Name:       "homus",
		Extensions: []string{".txt"},
	}
	Datasets["capitan"] = &Dataset{
		Name:     "capitan",
		DataFile: "BimodalHandwrittenSymbols/data",
	}
}
