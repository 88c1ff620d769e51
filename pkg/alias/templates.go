package alias

import (
	"path"
	"strings"
)

// Platform ids used as TargetPaths keys.
const (
	PlatformWindows = "windows"
	PlatformDarwin  = "darwin"
	PlatformLinux   = "linux"
	PlatformWSL     = "wsl"
)

// winJoin joins path segments with a backslash. Paths for the windows and
// wsl-host mappings are built explicitly so the table behaves the same no
// matter which platform the process itself runs on.
func winJoin(parts ...string) string {
	return strings.Join(parts, `\`)
}

// userFolderPaths builds the per-platform candidates for a standard user
// folder, including the OneDrive-redirected variant Windows installs often
// carry.
func userFolderPaths(cfg Config, folder string) map[string][]string {
	return map[string][]string{
		PlatformWindows: {
			winJoin(cfg.Home, folder),
			winJoin(cfg.Home, "OneDrive", folder),
		},
		PlatformDarwin: {path.Join(cfg.Home, folder)},
		PlatformLinux:  {path.Join(cfg.Home, folder)},
		PlatformWSL: {
			path.Join("/mnt/c/Users", cfg.Username, folder),
			path.Join(cfg.Home, folder),
		},
	}
}

// samePath maps every platform to the same candidates.
func samePath(paths ...string) map[string][]string {
	return map[string][]string{
		PlatformWindows: paths,
		PlatformDarwin:  paths,
		PlatformLinux:   paths,
		PlatformWSL:     paths,
	}
}

// staticEntries builds the startup alias set: user folders, drive letters,
// cloud-sync folders, known third-party folders, and special OS folders.
func staticEntries(cfg Config) []*Entry {
	entries := []*Entry{
		{
			Key: "home",
			LocalizedNames: map[string][]string{
				"en": {"home", "home folder", "user folder"},
				"ko": {"홈", "홈 폴더", "사용자 폴더"},
			},
			TargetPaths: samePath(cfg.Home),
		},
		{
			Key: "desktop",
			LocalizedNames: map[string][]string{
				"en": {"desktop", "desktop folder"},
				"ko": {"바탕화면", "바탕 화면", "데스크탑"},
			},
			TargetPaths: userFolderPaths(cfg, "Desktop"),
		},
		{
			Key: "documents",
			LocalizedNames: map[string][]string{
				"en": {"documents", "my documents"},
				"ko": {"문서", "내 문서", "도큐먼트"},
			},
			TargetPaths: userFolderPaths(cfg, "Documents"),
		},
		{
			Key: "downloads",
			LocalizedNames: map[string][]string{
				"en": {"downloads", "download folder"},
				"ko": {"다운로드", "다운로드 폴더", "내려받기"},
			},
			TargetPaths: userFolderPaths(cfg, "Downloads"),
		},
		{
			Key: "pictures",
			LocalizedNames: map[string][]string{
				"en": {"pictures", "photos", "images"},
				"ko": {"사진", "그림", "이미지"},
			},
			TargetPaths: userFolderPaths(cfg, "Pictures"),
		},
		{
			Key: "music",
			LocalizedNames: map[string][]string{
				"en": {"music", "songs"},
				"ko": {"음악", "뮤직"},
			},
			TargetPaths: userFolderPaths(cfg, "Music"),
		},
		{
			Key: "videos",
			LocalizedNames: map[string][]string{
				"en": {"videos", "movies"},
				"ko": {"비디오", "동영상", "영상"},
			},
			TargetPaths: userFolderPaths(cfg, "Videos"),
		},
		{
			Key: "onedrive",
			LocalizedNames: map[string][]string{
				"en": {"onedrive", "one drive"},
				"ko": {"원드라이브", "원 드라이브"},
			},
			TargetPaths: map[string][]string{
				// Regional installs suffix the folder with a localized
				// account label; probe the common variants in order.
				PlatformWindows: {
					winJoin(cfg.Home, "OneDrive"),
					winJoin(cfg.Home, "OneDrive - Personal"),
					winJoin(cfg.Home, "OneDrive - 개인용"),
				},
				PlatformDarwin: {path.Join(cfg.Home, "OneDrive")},
				PlatformLinux:  {path.Join(cfg.Home, "OneDrive")},
				PlatformWSL:    {path.Join("/mnt/c/Users", cfg.Username, "OneDrive")},
			},
		},
		{
			Key: "dropbox",
			LocalizedNames: map[string][]string{
				"en": {"dropbox", "drop box"},
				"ko": {"드롭박스", "드랍박스"},
			},
			TargetPaths: map[string][]string{
				PlatformWindows: {winJoin(cfg.Home, "Dropbox")},
				PlatformDarwin:  {path.Join(cfg.Home, "Dropbox")},
				PlatformLinux:   {path.Join(cfg.Home, "Dropbox")},
				PlatformWSL:     {path.Join("/mnt/c/Users", cfg.Username, "Dropbox")},
			},
		},
		{
			Key: "googledrive",
			LocalizedNames: map[string][]string{
				"en": {"google drive", "gdrive", "googledrive"},
				"ko": {"구글 드라이브", "구글드라이브"},
			},
			TargetPaths: map[string][]string{
				PlatformWindows: {
					winJoin(cfg.Home, "Google Drive"),
					winJoin("G:", "My Drive"),
				},
				PlatformDarwin: {path.Join(cfg.Home, "Google Drive")},
				PlatformLinux:  {path.Join(cfg.Home, "Google Drive")},
				PlatformWSL:    {path.Join("/mnt/c/Users", cfg.Username, "Google Drive")},
			},
		},
		{
			Key: "icloud",
			LocalizedNames: map[string][]string{
				"en": {"icloud", "icloud drive"},
				"ko": {"아이클라우드", "아이클라우드 드라이브"},
			},
			TargetPaths: map[string][]string{
				PlatformWindows: {winJoin(cfg.Home, "iCloudDrive")},
				PlatformDarwin:  {path.Join(cfg.Home, "Library", "Mobile Documents", "com~apple~CloudDocs")},
				PlatformLinux:   {},
				PlatformWSL:     {path.Join("/mnt/c/Users", cfg.Username, "iCloudDrive")},
			},
		},
		{
			Key: "kakaotalk_received",
			LocalizedNames: map[string][]string{
				"en": {"kakaotalk received files", "kakao received files"},
				"ko": {"카카오톡 받은 파일", "카톡 받은 파일"},
			},
			TargetPaths: map[string][]string{
				PlatformWindows: {
					winJoin(cfg.Home, "Documents", "카카오톡 받은 파일"),
					winJoin(cfg.Home, "Documents", "KakaoTalk Received Files"),
				},
				PlatformDarwin: {
					path.Join(cfg.Home, "Documents", "카카오톡 받은 파일"),
					path.Join(cfg.Home, "Documents", "KakaoTalk Received Files"),
				},
				PlatformLinux: {path.Join(cfg.Home, "Documents", "카카오톡 받은 파일")},
				PlatformWSL:   {path.Join("/mnt/c/Users", cfg.Username, "Documents", "카카오톡 받은 파일")},
			},
		},
		{
			Key: "recycle_bin",
			LocalizedNames: map[string][]string{
				"en": {"recycle bin", "trash"},
				"ko": {"휴지통", "쓰레기통"},
			},
			TargetPaths: map[string][]string{
				PlatformWindows: {winJoin("C:", "$Recycle.Bin")},
				PlatformDarwin:  {path.Join(cfg.Home, ".Trash")},
				PlatformLinux:   {path.Join(cfg.Home, ".local", "share", "Trash")},
				PlatformWSL:     {path.Join(cfg.Home, ".local", "share", "Trash")},
			},
		},
		{
			Key: "recent",
			LocalizedNames: map[string][]string{
				"en": {"recent", "recent files"},
				"ko": {"최근 문서", "최근 파일"},
			},
			TargetPaths: map[string][]string{
				PlatformWindows: {winJoin(cfg.Home, "AppData", "Roaming", "Microsoft", "Windows", "Recent")},
				PlatformDarwin:  {},
				PlatformLinux:   {},
				PlatformWSL:     {},
			},
		},
		{
			Key: "favorites",
			LocalizedNames: map[string][]string{
				"en": {"favorites", "bookmarks"},
				"ko": {"즐겨찾기", "북마크"},
			},
			TargetPaths: map[string][]string{
				PlatformWindows: {winJoin(cfg.Home, "Favorites")},
				PlatformDarwin:  {},
				PlatformLinux:   {},
				PlatformWSL:     {},
			},
		},
	}

	entries = append(entries, driveEntries()...)
	return entries
}

// driveEntries maps spoken drive-letter names to their roots. Only present
// for the windows and wsl platforms.
func driveEntries() []*Entry {
	letters := []struct {
		letter string
		ko     string
	}{
		{"c", "C 드라이브"},
		{"d", "D 드라이브"},
		{"e", "E 드라이브"},
	}

	entries := make([]*Entry, 0, len(letters))
	for _, l := range letters {
		upper := strings.ToUpper(l.letter)
		entries = append(entries, &Entry{
			Key: "drive_" + l.letter,
			LocalizedNames: map[string][]string{
				"en": {upper + " drive", "local disk " + upper},
				"ko": {l.ko, "로컬 디스크 " + upper},
			},
			TargetPaths: map[string][]string{
				PlatformWindows: {upper + `:\`},
				PlatformWSL:     {"/mnt/" + l.letter},
			},
		})
	}
	return entries
}
