package bot

import (
	"strconv"
	"strings"
)

// parseID extracts the numeric argument from callback data like "buy|42".
func parseID(data string) (uint, bool) {
	_, raw, ok := strings.Cut(data, "|")
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// parsePaid splits "paid|<deposit id>|<coin>".
func parsePaid(data string) (uint, string, bool) {
	parts := strings.Split(data, "|")
	if len(parts) != 3 {
		return 0, "", false
	}
	id, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return 0, "", false
	}
	return uint(id), parts[2], true
}

// parseAdjust splits "addbal|<user id>|<amount>", leaving the amount raw for
// decimal parsing.
func parseAdjust(data string) (int64, string, bool) {
	parts := strings.Split(data, "|")
	if len(parts) != 3 {
		return 0, "", false
	}
	userID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, "", false
	}
	return userID, parts[2], true
}

// parseEvidence splits a "TXID AMOUNT" reply. Anything after the first two
// fields is ignored.
func parseEvidence(text string) (txid, amount string, ok bool) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return "", "", false
	}
	return fields[0], fields[1], true
}

// parseUploadLine splits the guided "Brand,Value,Price,Code" reply.
func parseUploadLine(text string) (brand, value, price, code string, ok bool) {
	parts := strings.SplitN(text, ",", 4)
	if len(parts) != 4 {
		return "", "", "", "", false
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts[0], parts[1], parts[2], parts[3], true
}

// parseUploadCommand splits "/upload <brand> <value> <price> <code>".
func parseUploadCommand(text string) (brand, value, price, code string, ok bool) {
	fields := strings.Fields(text)
	if len(fields) < 5 {
		return "", "", "", "", false
	}
	return fields[1], fields[2], fields[3], strings.Join(fields[4:], " "), true
}
