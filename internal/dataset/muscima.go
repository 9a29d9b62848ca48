package dataset

func init() {
	Datasets["muscima_pp_v1"] = &Dataset{
		Name:        "muscima_pp_v1",
		Extensions:  []string{".xml"},
		Annotations: "v1.0/data/cropobjects_withstaff",
		Images:      "v1.0/data/images",
		Output:      "v1.0/data/json",
	}
	Datasets["muscima_pp_v2"] = &Dataset{
		Name:        "muscima_pp_v2",
		Extensions:  []string{".xml"},
		Annotations: "v2.0/data/annotations",
		Images:      "v2.0/data/images",
		Classes:     "v2.0/specifications/mff-muscima-mlclasses-annot.xml",
	}
}
