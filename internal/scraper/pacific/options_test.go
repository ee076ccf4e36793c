package pacific

import "testing"

func TestParseSearchOptions(t *testing.T) {
	markup := `
	<html><body><form name="searchform">
	<select name="other"><option>ignored</option></select>
	<select name="search_id">
		<option value="0"></option>
		<option value="17">Toyota Hiace Van</option>
		<option value="23"> Nissan Caravan </option>
	</select>
	</form></body></html>`

	options := parseSearchOptions(markup)
	if len(options) != 2 {
		t.Fatalf("expected 2 options, got %v", options)
	}
	if options[0] != "Toyota Hiace Van" || options[1] != "Nissan Caravan" {
		t.Errorf("wrong options: %v", options)
	}
}

func TestParseSearchOptionsNoSelect(t *testing.T) {
	if options := parseSearchOptions("<html><body><p>no form here</p></body></html>"); len(options) != 0 {
		t.Errorf("expected no options, got %v", options)
	}
}
