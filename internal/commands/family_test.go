package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecognize(t *testing.T) {
	tests := []struct {
		line        string
		wantOK      bool
		wantFamily  Family
		wantDisplay string
	}{
		{"SW1#show clock", true, ShowClock, "show clock"},
		{"SW1#sh cl", true, ShowClock, "sh cl"},
		{"Core-01#  show   running-config ", true, ShowRun, "show running-config"},
		{"SW1#sh run", true, ShowRun, "sh run"},
		{"SW1#show ver", true, ShowVersion, "show ver"},
		{"SW1#show logging", true, ShowLog, "show logging"},
		{"SW1#sh lo", true, ShowLog, "sh lo"},
		{"SW1#sho env all", true, ShowEnvAll, "sho env all"},
		{"SW1#show environment all", true, ShowEnvAll, "show environment all"},
		{"SW1#show int|i CRC", true, ShowInterfaceCRC, "show int | i CRC"},
		{"SW1#show interfaces | include crc", true, ShowInterfaceCRC, "show interfaces | include crc"},
		{"SW1#show env", true, Unknown, "show env"},
		{"SW1#show ip int brief", true, Unknown, "show ip int brief"},
		{"SW1#terminal length 0", true, Unknown, "terminal length 0"},
		{"SW1#", false, Unknown, ""},
		{"SW1#   ", false, Unknown, ""},
		{"hostname SW1", false, Unknown, ""},
		{"", false, Unknown, ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := Recognize(tt.line)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantFamily, got.Family)
			assert.Equal(t, tt.wantDisplay, got.Display)
		})
	}
}

func TestIsShowClock(t *testing.T) {
	assert.True(t, IsShowClock("SW1#show clock"))
	assert.True(t, IsShowClock("SW1# sh clo"))
	assert.False(t, IsShowClock("show clock"))
	assert.False(t, IsShowClock("SW1#show version"))
	assert.False(t, IsShowClock("SW1#clear counters"))
}

func TestExtract(t *testing.T) {
	lines := []string{
		"SW1#show clock",
		"*10:00:00 UTC Wed Feb 25 2026",
		"SW1#",
		"SW1#show version",
	}

	cmds := Extract(lines)

	require.Len(t, cmds, 2)
	assert.Equal(t, Command{Family: ShowClock, Display: "show clock", LineNo: 1}, cmds[0])
	assert.Equal(t, Command{Family: ShowVersion, Display: "show version", LineNo: 4}, cmds[1])
}

func TestParseFamily(t *testing.T) {
	tests := []struct {
		label   string
		want    Family
		wantErr bool
	}{
		{"show clock", ShowClock, false},
		{"SHOW CLOCK", ShowClock, false},
		{"show interface | i crc", ShowInterfaceCRC, false},
		{"sh int | inc CRC", ShowInterfaceCRC, false},
		{"sh ver", ShowVersion, false},
		{"unknown command", Unknown, false},
		{"show ip route", Unknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := ParseFamily(tt.label)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFamily)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFamily_TextRoundTrip(t *testing.T) {
	for f := Unknown; f <= ShowInterfaceCRC; f++ {
		text, err := f.MarshalText()
		require.NoError(t, err)

		var back Family
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, f, back)
	}
}
