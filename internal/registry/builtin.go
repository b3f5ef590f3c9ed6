package registry

import "github.com/google/uuid"

// BundledID returns the stable ID of a bundled entry. IDs are derived from
// the process name so user overrides saved in one run still target the same
// entry in the next.
func BundledID(processName string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("app:"+NormalizeProcessIdentity(processName))).String()
}

// BundledApplications returns the catalog shipped with keysheet. The slice is
// freshly allocated on every call.
func BundledApplications() []Application {
	return []Application{
		bundled("Visual Studio Code", "Code.exe"),
		bundled("Google Chrome", "chrome.exe"),
	}
}

func bundled(name, processName string) Application {
	return Application{
		ID:          BundledID(processName),
		Name:        name,
		ProcessName: processName,
	}
}
