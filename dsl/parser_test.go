package dsl

import "testing"

func TestParse_BareFilterCall(t *testing.T) {
	prog, err := Parse("grayscale")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(prog.Stmts) != 1 || prog.Stmts[0].Call.Name != "grayscale" {
		t.Fatalf("got %+v", prog.Stmts)
	}
}

func TestParse_PositionalAndNamedArgs(t *testing.T) {
	prog, err := Parse("threshold 128 edge=\"clamp\"")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	call := prog.Stmts[0].Call
	if len(call.Args) != 2 {
		t.Fatalf("got %d args, want 2", len(call.Args))
	}
	if call.Args[0].Key != "" || call.Args[0].Value.Kind != ValNumber || call.Args[0].Value.Number != 128 {
		t.Errorf("arg0: got %+v", call.Args[0])
	}
	if call.Args[1].Key != "edge" || call.Args[1].Value.Str != "clamp" {
		t.Errorf("arg1: got %+v", call.Args[1])
	}
}

func TestParse_NodeDef(t *testing.T) {
	prog, err := Parse("[blurred: gaussian_blur 2.0]")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if prog.Stmts[0].NodeName != "blurred" {
		t.Errorf("got NodeName %q, want %q", prog.Stmts[0].NodeName, "blurred")
	}
}

func TestParse_RefWithAndWithoutPort(t *testing.T) {
	prog, err := Parse("blend base=a.output src=b")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	call := prog.Stmts[0].Call
	a := call.Args[0].Value
	if a.Kind != ValRef || a.RefNode != "a" || a.RefPort != "output" {
		t.Errorf("arg0: got %+v", a)
	}
	b := call.Args[1].Value
	if b.Kind != ValRef || b.RefNode != "b" || b.RefPort != "" {
		t.Errorf("arg1: got %+v", b)
	}
}

func TestParse_TupleValue(t *testing.T) {
	prog, err := Parse("crop 1, 2, 3, 4")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	v := prog.Stmts[0].Call.Args[0].Value
	if v.Kind != ValTuple || len(v.Tuple) != 4 {
		t.Fatalf("got %+v", v)
	}
	if v.Tuple[2].Number != 3 {
		t.Errorf("tuple[2] = %v, want 3", v.Tuple[2].Number)
	}
}

func TestParse_MultipleStatementsSeparatedByPipe(t *testing.T) {
	prog, err := Parse("grayscale | invert")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(prog.Stmts) != 2 {
		t.Fatalf("got %d statements, want 2", len(prog.Stmts))
	}
	if prog.Stmts[0].Call.Name != "grayscale" || prog.Stmts[1].Call.Name != "invert" {
		t.Errorf("got %+v", prog.Stmts)
	}
}

func TestParse_ColorArgument(t *testing.T) {
	prog, err := Parse("color_overlay color=#ff0000")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	v := prog.Stmts[0].Call.Args[0].Value
	if v.Kind != ValColor || v.Color != "ff0000" {
		t.Errorf("got %+v", v)
	}
}

func TestParse_SyntaxErrorOnTrailingGarbage(t *testing.T) {
	if _, err := Parse("grayscale ]"); err == nil {
		t.Error("expected a syntax error for an unbalanced ']'")
	}
}

func TestParse_MissingNodeNameErrors(t *testing.T) {
	if _, err := Parse("[: grayscale]"); err == nil {
		t.Error("expected an error for a node_def missing its name")
	}
}
