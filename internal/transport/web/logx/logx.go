package logx

import (
	"fmt"
	"log"
	"strings"
)

// Тонкие хелперы поверх stdlib log: единый формат строк
// lvl=... req_id=... op=... msg=... плюс произвольные пары ключ-значение.

func Info(l *log.Logger, reqID, op, msg string, kvs ...any) {
	l.Printf("lvl=info req_id=%s op=%s msg=%q%s", reqID, op, msg, format(kvs))
}

func Error(l *log.Logger, reqID, op, msg string, err error, kvs ...any) {
	l.Printf("lvl=error req_id=%s op=%s msg=%q err=%q%s", reqID, op, msg, errText(err), format(kvs))
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func format(kvs []any) string {
	if len(kvs) == 0 {
		return ""
	}
	var sb strings.Builder
	for i := 0; i+1 < len(kvs); i += 2 {
		sb.WriteString(fmt.Sprintf(" %v=%v", kvs[i], kvs[i+1]))
	}
	if len(kvs)%2 != 0 {
		sb.WriteString(fmt.Sprintf(" %v=?", kvs[len(kvs)-1]))
	}
	return sb.String()
}
