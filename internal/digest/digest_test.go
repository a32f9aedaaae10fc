package digest

import (
	"bufio"
	"context"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"omnivox-backend/internal/components/chrono"
	"omnivox-backend/internal/config"
	"omnivox-backend/internal/records"
	"omnivox-backend/internal/student"

	"github.com/stretchr/testify/require"
)

var now = time.Date(2020, time.February, 10, 9, 0, 0, 0, time.UTC)

func newTestStudent(t *testing.T) *student.Student {
	s := student.NewStudent(chrono.NewFixedTime(now))
	s.AddCourse("Chimie")
	require.NoError(t, s.AssignDocument("Chimie", records.NewDocument("Chimie", "Plan de cours", now.AddDate(0, 0, -7), true, "plan.pdf")))
	require.NoError(t, s.AssignDocument("Chimie", records.NewDocument("Chimie", "Notes 3", now.AddDate(0, 0, -1), false, "notes3.pdf")))
	require.NoError(t, s.AssignAssignment("Chimie", records.NewAssignment("Chimie", "Labo 2", now.AddDate(0, 0, 4), false, false)))
	s.AssignCalendarEvent(records.NewCalendarEvent("Chimie", "Examen", now.AddDate(0, 0, 2), "Salle 204"))
	s.AssignCalendarEvent(records.NewCalendarEvent("", "Relâche", now.AddDate(0, 0, 20), ""))
	return s
}

func TestBuild(t *testing.T) {
	d := Build("maisonneuve", "1934567", newTestStudent(t), now, 7*24*time.Hour)

	require.Len(t, d.Documents, 1)
	require.Equal(t, "Notes 3", d.Documents[0].Title())
	require.Len(t, d.Assignments, 1)
	require.Len(t, d.Events, 1)
	require.Equal(t, "Examen", d.Events[0].Title())
	require.False(t, d.Empty())
	require.Equal(t, "Omnivox maisonneuve: 1 new documents, 1 new assignments, 1 upcoming events", d.Subject())
}

func TestRender(t *testing.T) {
	text := Build("maisonneuve", "1934567", newTestStudent(t), now, 7*24*time.Hour).Render()
	require.Contains(t, text, "Omnivox digest for 1934567 at maisonneuve, 10/Feb/2020 09:00")
	require.Contains(t, text, "Notes 3")
	require.Contains(t, text, "09/Feb/2020")
	require.Contains(t, text, "Labo 2")
	require.Contains(t, text, "Salle 204")
	require.NotContains(t, text, "Plan de cours")
	require.NotContains(t, text, "Relâche")

	empty := Build("maisonneuve", "1934567", student.NewStudent(chrono.NewFixedTime(now)), now, time.Hour)
	require.True(t, empty.Empty())
	require.Contains(t, empty.Render(), "Nothing New")
}

type fakeSmtp struct {
	listener net.Listener
	wg       sync.WaitGroup

	mutex sync.Mutex
	rcpt  []string
	data  string
}

func newFakeSmtp(t *testing.T) *fakeSmtp {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	f := &fakeSmtp{listener: listener}
	f.wg.Add(1)
	go f.serve()
	t.Cleanup(func() {
		listener.Close()
		f.wg.Wait()
	})
	return f
}

func (f *fakeSmtp) serve() {
	defer f.wg.Done()
	conn, err := f.listener.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	reader := bufio.NewReader(conn)
	write := func(line string) {
		conn.Write([]byte(line + "\r\n"))
	}
	write("220 localhost ESMTP")
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		command := strings.ToUpper(strings.TrimSpace(line))
		switch {
		case strings.HasPrefix(command, "EHLO"), strings.HasPrefix(command, "HELO"):
			write("250 localhost")
		case strings.HasPrefix(command, "RCPT"):
			f.mutex.Lock()
			f.rcpt = append(f.rcpt, strings.TrimSpace(line))
			f.mutex.Unlock()
			write("250 OK")
		case command == "DATA":
			write("354 go ahead")
			var data strings.Builder
			for {
				dataLine, err := reader.ReadString('\n')
				if err != nil {
					return
				}
				if dataLine == ".\r\n" {
					break
				}
				data.WriteString(dataLine)
			}
			f.mutex.Lock()
			f.data = data.String()
			f.mutex.Unlock()
			write("250 OK")
		case command == "QUIT":
			write("221 bye")
			return
		default:
			write("250 OK")
		}
	}
}

func TestSend(t *testing.T) {
	server := newFakeSmtp(t)
	host, port, err := net.SplitHostPort(server.listener.Addr().String())
	require.NoError(t, err)
	portNumber, err := strconv.Atoi(port)
	require.NoError(t, err)

	d := Build("maisonneuve", "1934567", newTestStudent(t), now, 7*24*time.Hour)
	err = Send(context.Background(), config.SmtpConfig{
		Host: host,
		Port: portNumber,
		From: "digest@example.com",
		To:   []string{"student@example.com"},
	}, d)
	require.NoError(t, err)

	server.mutex.Lock()
	defer server.mutex.Unlock()
	require.Equal(t, []string{"RCPT TO:<student@example.com>"}, server.rcpt)
	require.Contains(t, server.data, "Subject: Omnivox maisonneuve")
}

func TestSendUnconfigured(t *testing.T) {
	err := Send(context.Background(), config.SmtpConfig{}, Digest{})
	require.Error(t, err)
}
