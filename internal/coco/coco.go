// Package coco aggregates per-page measure annotations into one COCO
// object-detection dataset.
package coco

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/phobologic/omrprep/internal/model"
)

// Category ids of the three region kinds.
const (
	SystemMeasureID = 1
	StaveMeasureID  = 2
	StaveID         = 3
)

// Info describes the dataset as a whole.
type Info struct {
	Description string `json:"description"`
	URL         string `json:"url"`
	Version     string `json:"version"`
	Year        int    `json:"year"`
	Contributor string `json:"contributor"`
	DateCreated string `json:"date_created"`
}

type License struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type Category struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Supercategory string `json:"supercategory"`
}

type Image struct {
	ID           int    `json:"id"`
	FileName     string `json:"file_name"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	DateCaptured string `json:"date_captured"`
	License      int    `json:"license"`
	CocoURL      string `json:"coco_url"`
	FlickrURL    string `json:"flickr_url"`
}

// Annotation is one region. BBox is [left, top, width, height].
type Annotation struct {
	ID           int         `json:"id"`
	ImageID      int         `json:"image_id"`
	CategoryID   int         `json:"category_id"`
	IsCrowd      int         `json:"iscrowd"`
	Area         float64     `json:"area"`
	BBox         [4]int      `json:"bbox"`
	Segmentation [][]float64 `json:"segmentation"`
}

// Dataset is a complete COCO annotation file.
type Dataset struct {
	Info        Info         `json:"info"`
	Licenses    []License    `json:"licenses"`
	Categories  []Category   `json:"categories"`
	Images      []Image      `json:"images"`
	Annotations []Annotation `json:"annotations"`
}

const timeLayout = "2006-01-02 15:04:05.000000"

// Builder assigns sequential image and annotation ids, both starting at 1,
// in the order pages are added. It is not safe for concurrent use.
type Builder struct {
	ds        Dataset
	now       string
	nextImage int
	nextAnn   int
}

// NewBuilder starts an empty dataset stamped with created.
func NewBuilder(created time.Time) *Builder {
	now := created.UTC().Format(timeLayout)
	return &Builder{
		ds: Dataset{
			Info: Info{
				Description: "MUSCIMA++ dataset for Measure Detection",
				URL:         "https://apacha.github.io/OMR-Datasets/",
				Version:     "0.1",
				Year:        2019,
				Contributor: "apacha",
				DateCreated: now,
			},
			Licenses: []License{{
				ID:   1,
				Name: "Attribution-NonCommercial-ShareAlike License",
				URL:  "http://creativecommons.org/licenses/by-nc-sa/4.0/",
			}},
			Categories: []Category{
				{ID: SystemMeasureID, Name: "system_measure", Supercategory: "region"},
				{ID: StaveMeasureID, Name: "stave_measure", Supercategory: "region"},
				{ID: StaveID, Name: "stave", Supercategory: "region"},
			},
			Images:      []Image{},
			Annotations: []Annotation{},
		},
		now:       now,
		nextImage: 1,
		nextAnn:   1,
	}
}

// Add appends one page and its regions: system measures, then stave
// measures, then staves.
func (b *Builder) Add(fileName string, page model.Page) {
	id := b.nextImage
	b.nextImage++
	b.ds.Images = append(b.ds.Images, Image{
		ID:           id,
		FileName:     fileName,
		Width:        page.Width,
		Height:       page.Height,
		DateCaptured: b.now,
		License:      1,
	})
	b.addBoxes(id, SystemMeasureID, page.SystemMeasures)
	b.addBoxes(id, StaveMeasureID, page.StaveMeasures)
	b.addBoxes(id, StaveID, page.Staves)
}

func (b *Builder) addBoxes(imageID, category int, boxes []model.Box) {
	for _, box := range boxes {
		b.ds.Annotations = append(b.ds.Annotations, Annotation{
			ID:           b.nextAnn,
			ImageID:      imageID,
			CategoryID:   category,
			BBox:         [4]int{box.Left, box.Top, box.Width(), box.Height()},
			Segmentation: [][]float64{},
		})
		b.nextAnn++
	}
}

// Dataset returns the aggregate built so far.
func (b *Builder) Dataset() Dataset { return b.ds }

// Read loads a COCO file.
func Read(path string) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, err
	}
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return Dataset{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	return ds, nil
}

// Write stores ds as indented JSON.
func Write(path string, ds Dataset) error {
	data, err := json.MarshalIndent(ds, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
