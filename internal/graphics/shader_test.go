package graphics

import "testing"

func TestInjectDefinesAfterVersion(t *testing.T) {
	src := "#version 430 core\nlayout(local_size_x = LOCAL_SIZE_X) in;\n"
	got := injectDefines(src, []Define{{Name: "LOCAL_SIZE_X", Value: "256"}})
	want := "#version 430 core\n#define LOCAL_SIZE_X 256\nlayout(local_size_x = LOCAL_SIZE_X) in;\n"
	if got != want {
		t.Fatalf("inject: got %q, want %q", got, want)
	}
}

func TestInjectDefinesWithoutVersion(t *testing.T) {
	got := injectDefines("void main() {}", []Define{{Name: "A", Value: "1"}, {Name: "B", Value: "2"}})
	want := "#define A 1\n#define B 2\nvoid main() {}"
	if got != want {
		t.Fatalf("inject: got %q, want %q", got, want)
	}
}

func TestInjectDefinesNoop(t *testing.T) {
	src := "#version 410 core\nvoid main() {}"
	if got := injectDefines(src, nil); got != src {
		t.Fatalf("expected source unchanged, got %q", got)
	}
}
