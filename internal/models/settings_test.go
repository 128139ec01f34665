package models

import (
	"testing"
	"time"

	"github.com/julianstephens/tally/internal/constants"
)

func TestMapToSettings(t *testing.T) {
	settings, err := MapToSettings(map[string]string{
		constants.SettingFirstWeekday:         "0",
		constants.SettingTimezone:             "Europe/Berlin",
		constants.SettingNotificationsEnabled: "false",
		constants.SettingReminderHour:         "9",
	})
	if err != nil {
		t.Fatalf("MapToSettings() error = %v", err)
	}
	if settings.FirstWeekday != time.Sunday {
		t.Errorf("FirstWeekday = %v, want Sunday", settings.FirstWeekday)
	}
	if settings.Timezone != "Europe/Berlin" || settings.NotificationsEnabled || settings.ReminderHour != 9 {
		t.Errorf("unexpected settings: %+v", settings)
	}

	back, err := MapToSettings(SettingsToMap(settings))
	if err != nil {
		t.Fatalf("MapToSettings(SettingsToMap()) error = %v", err)
	}
	if back != settings {
		t.Errorf("round trip = %+v, want %+v", back, settings)
	}
}

func TestMapToSettings_Defaults(t *testing.T) {
	settings, err := MapToSettings(map[string]string{})
	if err != nil {
		t.Fatalf("MapToSettings() error = %v", err)
	}
	if settings != DefaultSettings() {
		t.Errorf("MapToSettings(empty) = %+v, want defaults", settings)
	}
	if settings.FirstWeekday != time.Monday {
		t.Errorf("default FirstWeekday = %v, want Monday", settings.FirstWeekday)
	}
}

func TestParseFirstWeekday(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Weekday
		wantErr bool
	}{
		{"1", time.Monday, false},
		{"0", time.Sunday, false},
		{"sunday", time.Sunday, false},
		{"Sat", time.Saturday, false},
		{"7", 0, true},
		{"nope", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFirstWeekday(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFirstWeekday() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseFirstWeekday() = %v, want %v", got, tt.want)
			}
		})
	}
}
