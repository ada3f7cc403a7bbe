package wal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"
)

// 自己定義常用的權限常量
const (
	// rw-r--r-- (擁有者讀寫，其他人唯讀) - 適用於大多數檔案
	FileModeDefault fs.FileMode = 0644

	// rw------- (只有擁有者可讀寫) - 適用於私鑰、機密檔
	FileModePrivate fs.FileMode = 0600
)

// ErrBroken 落盤失敗且無法回滾，WAL 不再接受寫入
var ErrBroken = errors.New("wal broken")

// WAL 以 JSON Lines 格式附加寫入的 Write-Ahead Log
//
// 結構:
//
//	committed: 已確認落盤的檔案長度，Flush 失敗時截斷回這個位置
//	broken: 截斷也失敗時記錄原因，之後的寫入一律拒絕
type WAL struct {
	file      *os.File
	buf       *bufio.Writer
	sync      func() error
	committed int64
	broken    error
	mu        sync.Mutex
}

// NewWAL 開啟或建立一個 WAL 檔案
// O_RDWR讀寫模式
// O_APPEND 每次寫入時自動跳到文件末尾
// O_CREATE 如果文件不存在則建立
func NewWAL(path string) (*WAL, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, FileModeDefault)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	return &WAL{
		file:      file,
		buf:       bufio.NewWriter(file),
		sync:      file.Sync,
		committed: info.Size(),
	}, nil
}

// Write 寫入一筆資料到緩衝區 (尚未落盤，需再呼叫 Flush)
func (w *WAL) Write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.broken != nil {
		return w.broken
	}
	return json.NewEncoder(w.buf).Encode(v)
}

// Flush 把緩衝區寫入檔案並強制刷入硬碟 (關鍵！)
func (w *WAL) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.flushLocked()
}

// flushLocked 寫出緩衝區並 Sync
// 任一步失敗時截斷回上次落盤的位置，讓失敗的紀錄不會在重放時出現
func (w *WAL) flushLocked() error {
	if w.broken != nil {
		return w.broken
	}
	pending := w.buf.Buffered()
	if pending == 0 {
		return nil
	}
	err := w.buf.Flush()
	if err == nil {
		err = w.sync()
	}
	if err == nil {
		w.committed += int64(pending)
		return nil
	}

	w.buf.Reset(w.file)
	if terr := w.file.Truncate(w.committed); terr != nil {
		w.broken = fmt.Errorf("%w: %v (rollback: %v)", ErrBroken, err, terr)
		return w.broken
	}
	return err
}

// Close 刷入剩餘資料後關閉檔案
func (w *WAL) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.flushLocked(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}

// ReadAll 讀取所有資料
// callback 是一個函式，接收一筆 JSON 原始資料
// 這樣可以避免一次將所有資料載入記憶體
func (w *WAL) ReadAll(callback func(jsonRaw []byte) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	// 先把尚未落盤的資料寫出，確保讀得到
	if err := w.flushLocked(); err != nil {
		return err
	}
	// 確保從頭讀取
	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return err
	}

	decoder := json.NewDecoder(bufio.NewReader(w.file))
	for {
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if err := callback(raw); err != nil {
			return err
		}
	}
	return nil
}
