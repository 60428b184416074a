// Package gltfexport writes composed figure poses as glTF scenes for
// inspection in external viewers.
package gltfexport

import (
	"fmt"
	"io"

	"github.com/qmuntal/gltf"

	"github.com/mogaika/figure_anim/skeleton"
)

const LIGHT_NODE_NAME = "lantern_light"

func NewDocument() *gltf.Document {
	return gltf.NewDocument()
}

func slotName(kind skeleton.Kind, slot int) string {
	if kind == skeleton.KIND_CHARACTER {
		return skeleton.CharacterSlotNames[slot]
	}
	return fmt.Sprintf("slot_%d", slot)
}

// Pose appends one node per output slot with its world matrix, plus a light
// node at the auxiliary point. Returns the root node index.
func Pose(doc *gltf.Document, name string, skel skeleton.Skeleton) uint32 {
	mats, light := skel.ComputeMatrices()

	root := &gltf.Node{Name: name, Matrix: identity()}
	rootId := uint32(len(doc.Nodes))
	doc.Nodes = append(doc.Nodes, root)

	for slot, m := range mats {
		root.Children = append(root.Children, uint32(len(doc.Nodes)))
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name:   slotName(skel.Kind(), slot),
			Matrix: m.Mat4(),
		})
	}

	root.Children = append(root.Children, uint32(len(doc.Nodes)))
	doc.Nodes = append(doc.Nodes, &gltf.Node{
		Name:        LIGHT_NODE_NAME,
		Matrix:      identity(),
		Translation: light,
		Scale:       [3]float32{1, 1, 1},
		Rotation:    [4]float32{0, 0, 0, 1},
	})

	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, rootId)
	return rootId
}

func identity() [16]float32 {
	return [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
}

func WriteBinary(w io.Writer, doc *gltf.Document) error {
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	return encoder.Encode(doc)
}
