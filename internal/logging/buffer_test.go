package logging

import "testing"

func TestRingBufferWrapAndSeq(t *testing.T) {
	rb := NewRingBuffer(3)
	for _, msg := range []string{"a", "b", "c", "d"} {
		rb.Write(LogEntry{Message: msg})
	}

	all := rb.ReadAll()
	if len(all) != 3 || rb.Count() != 3 {
		t.Fatalf("len = %d, count = %d, want 3", len(all), rb.Count())
	}
	if all[0].Message != "b" || all[2].Message != "d" {
		t.Errorf("order = %s %s %s, want b c d", all[0].Message, all[1].Message, all[2].Message)
	}
	if all[0].Seq != 2 || all[2].Seq != 4 {
		t.Errorf("seq = %d..%d, want 2..4", all[0].Seq, all[2].Seq)
	}

	since := rb.ReadSince(3)
	if len(since) != 1 || since[0].Message != "d" {
		t.Errorf("ReadSince(3) = %+v, want [d]", since)
	}
	if rb.ReadSince(4) != nil {
		t.Error("ReadSince(latest) should be empty")
	}
}

func TestRingBufferEmpty(t *testing.T) {
	rb := NewRingBuffer(2)
	if rb.ReadAll() != nil {
		t.Error("empty buffer should read nil")
	}
}
