package formats

import (
	"strings"
	"testing"
)

func TestParseMTL(t *testing.T) {
	src := `# track surface
newmtl asphalt
Ka 0.2 0.2 0.2
Kd 0.8 0.8 0.8
Ks 0.5 0.5 0.5
Ns 32
map_Kd asphalt.png
`
	mat, warnings := ParseMTL([]byte(src))

	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if mat.Ambient != [3]float32{0.2, 0.2, 0.2} {
		t.Errorf("Ka = %v", mat.Ambient)
	}
	if mat.Diffuse != [3]float32{0.8, 0.8, 0.8} {
		t.Errorf("Kd = %v", mat.Diffuse)
	}
	if mat.Specular != [3]float32{0.5, 0.5, 0.5} {
		t.Errorf("Ks = %v", mat.Specular)
	}
	if mat.Shininess != 32 {
		t.Errorf("Ns = %v", mat.Shininess)
	}
	if mat.Texture != "asphalt.png" {
		t.Errorf("map_Kd = %q", mat.Texture)
	}
}

func TestParseMTL_Malformed(t *testing.T) {
	src := `Ka 0.2 0.2
Ns nope
Kd 0.8 0.8 0.8
`
	mat, warnings := ParseMTL([]byte(src))

	if len(warnings) != 2 {
		t.Errorf("expected 2 warnings, got %v", warnings)
	}
	// Valid records after a malformed one still apply.
	if mat.Diffuse != [3]float32{0.8, 0.8, 0.8} {
		t.Errorf("Kd = %v", mat.Diffuse)
	}
	if mat.Ambient != [3]float32{} {
		t.Errorf("malformed Ka applied: %v", mat.Ambient)
	}
}

func TestWriteMTL_RoundTrip(t *testing.T) {
	orig := Material{
		Ambient:   [3]float32{0.1, 0.2, 0.3},
		Diffuse:   [3]float32{0.4, 0.5, 0.6},
		Specular:  [3]float32{0.7, 0.8, 0.9},
		Shininess: 64,
		Texture:   "road.png",
	}
	back, warnings := ParseMTL(WriteMTL(orig))

	if len(warnings) != 0 {
		t.Fatalf("round trip produced warnings: %v", warnings)
	}
	if back != orig {
		t.Errorf("round trip changed material:\n%+v\n%+v", orig, back)
	}
}

func TestWriteMTL_NoTextureLine(t *testing.T) {
	out := string(WriteMTL(Material{Shininess: 8}))
	if strings.Contains(out, "map_Kd") {
		t.Errorf("empty texture still emitted map_Kd:\n%s", out)
	}
}
