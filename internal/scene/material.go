package scene

// Blending selects how a fragment combines with the framebuffer.
type Blending int

const (
	// BlendNormal overwrites the destination.
	BlendNormal Blending = iota
	// BlendAdditive adds source color to the destination.
	BlendAdditive
)

func (b Blending) String() string {
	switch b {
	case BlendAdditive:
		return "additive"
	default:
		return "normal"
	}
}

// Material describes how a point cloud is drawn.
type Material struct {
	Size            float64
	SizeAttenuation bool
	DepthWrite      bool
	VertexColors    bool
	Blending        Blending
}

// PointsMaterial is the galaxy material: attenuated, additive, no depth
// writes, colored per vertex.
func PointsMaterial(size float64) Material {
	return Material{
		Size:            size,
		SizeAttenuation: true,
		DepthWrite:      false,
		VertexColors:    true,
		Blending:        BlendAdditive,
	}
}
