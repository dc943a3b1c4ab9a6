package protocol

import (
	"bytes"
	"testing"

	"cluster_chat_server/pkg/errorx"
)

func TestParseEnvelope(t *testing.T) {
	data := []byte(`{"msgid":6,"id":1,"to":2,"msg":"hi"}`)
	env, err := ParseEnvelope(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if env.MsgID != OneChatMsg {
		t.Fatalf("expected msgid %d, got %d", OneChatMsg, env.MsgID)
	}
	if !bytes.Equal(env.Raw, data) {
		t.Fatal("raw document must be preserved verbatim")
	}

	// Raw 是副本，调用方复用缓冲区不得影响信封
	data[0] = 'x'
	if env.Raw[0] == 'x' {
		t.Fatal("envelope must hold its own copy of the frame")
	}
}

func TestParseEnvelopeInvalidJSON(t *testing.T) {
	if _, err := ParseEnvelope([]byte("{not json")); err == nil {
		t.Fatal("expected error for malformed frame")
	} else if errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Fatalf("expected invalid-param code, got %d", errorx.GetCode(err))
	}
}

func TestParseEnvelopeMissingMsgID(t *testing.T) {
	if _, err := ParseEnvelope([]byte(`{"id":1}`)); err == nil {
		t.Fatal("expected error for missing msgid")
	}
	if _, err := ParseEnvelope([]byte(`{"msgid":0}`)); err == nil {
		t.Fatal("expected error for zero msgid")
	}
}
