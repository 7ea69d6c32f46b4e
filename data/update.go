package data

import (
	"slices"
	"time"
)

// AssetPatchMask controls which fields of a record a patch touches.
type AssetPatchMask int

const (
	AssetPatchTitle AssetPatchMask = 1 << iota
	AssetPatchTags
	AssetPatchCategory
	AssetPatchFolder

	AssetPatchMetadata = AssetPatchTitle | AssetPatchTags | AssetPatchCategory
	AssetPatchAll      = AssetPatchMetadata | AssetPatchFolder
)

// AssetPatch is a partial update of an asset record. ID, Type and ImageRef are never patched.
type AssetPatch struct {
	Mask  AssetPatchMask `json:"mask"`
	Asset *Asset         `json:"asset"`
}

// NewMetadataPatch builds the patch an edit session sends: title, tags and category together.
func NewMetadataPatch(title string, tags []string, category string) *AssetPatch {
	if tags == nil {
		tags = []string{}
	}

	return &AssetPatch{
		Mask: AssetPatchMetadata,
		Asset: &Asset{
			Title:    title,
			Tags:     tags,
			Category: category,
		},
	}
}

// Fields lists the names of the fields selected by the mask, in a fixed order.
func (p *AssetPatch) Fields() []string {
	var fields []string
	if p.Mask&AssetPatchTitle != 0 {
		fields = append(fields, "title")
	}
	if p.Mask&AssetPatchTags != 0 {
		fields = append(fields, "tags")
	}
	if p.Mask&AssetPatchCategory != 0 {
		fields = append(fields, "category")
	}
	if p.Mask&AssetPatchFolder != 0 {
		fields = append(fields, "folder")
	}

	return fields
}

// Apply writes the selected fields onto target and reports whether anything was applied.
func (p *AssetPatch) Apply(target *Asset) (bool, error) {
	if p.Asset == nil {
		return false, InvalidArgument("patch without values")
	}

	modified := false

	if p.Mask&AssetPatchTitle != 0 {
		target.Title = p.Asset.Title
		modified = true
	}

	if p.Mask&AssetPatchTags != 0 {
		target.Tags = slices.Clone(p.Asset.Tags)
		if target.Tags == nil {
			target.Tags = []string{}
		}
		modified = true
	}

	if p.Mask&AssetPatchCategory != 0 {
		target.Category = p.Asset.Category
		modified = true
	}

	if p.Mask&AssetPatchFolder != 0 {
		target.Folder = p.Asset.Folder
		modified = true
	}

	if modified {
		target.ModifyTime = time.Now()
	}

	return modified, nil
}
